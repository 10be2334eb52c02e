package openfda

import "encoding/json"

// Meta is the envelope header every openFDA response carries.
type Meta struct {
	Disclaimer  string      `json:"disclaimer"`
	Terms       string      `json:"terms"`
	License     string      `json:"license"`
	LastUpdated string      `json:"last_updated"`
	Results     MetaResults `json:"results"`
}

// MetaResults describes pagination of the result window.
type MetaResults struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Envelope is the raw response: meta plus untyped records. Typed helpers
// on Client decode Results into the record structs below.
type Envelope struct {
	Meta    Meta              `json:"meta"`
	Results []json.RawMessage `json:"results"`
}

// CountResult is one bucket of a count query.
type CountResult struct {
	Term  string `json:"term"`
	Time  string `json:"time,omitempty"` // set for date-field counts
	Count int    `json:"count"`
}

// apiErrorBody is the JSON error shape openFDA returns on failures.
type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// OpenFDAAnnotations is the harmonized openfda sub-object joined onto
// several datasets.
type OpenFDAAnnotations struct {
	DeviceClass                 string   `json:"device_class,omitempty"`
	DeviceName                  string   `json:"device_name,omitempty"`
	MedicalSpecialtyDescription string   `json:"medical_specialty_description,omitempty"`
	RegulationNumber            string   `json:"regulation_number,omitempty"`
	FEINumber                   []string `json:"fei_number,omitempty"`
	RegistrationNumber          []string `json:"registration_number,omitempty"`
}

// K510 is one 510(k) premarket notification record.
type K510 struct {
	KNumber                       string             `json:"k_number"`
	Applicant                     string             `json:"applicant"`
	Contact                       string             `json:"contact"`
	DeviceName                    string             `json:"device_name"`
	DecisionCode                  string             `json:"decision_code"`
	DecisionDescription           string             `json:"decision_description"`
	DecisionDate                  string             `json:"decision_date"`
	DateReceived                  string             `json:"date_received"`
	ClearanceType                 string             `json:"clearance_type"`
	ProductCode                   string             `json:"product_code"`
	AdvisoryCommittee             string             `json:"advisory_committee"`
	AdvisoryCommitteeDescription  string             `json:"advisory_committee_description"`
	ReviewAdvisoryCommittee       string             `json:"review_advisory_committee"`
	ExpeditedReviewFlag           string             `json:"expedited_review_flag"`
	StatementOrSummary            string             `json:"statement_or_summary"`
	ThirdPartyFlag                string             `json:"third_party_flag"`
	City                          string             `json:"city"`
	State                         string             `json:"state"`
	ZipCode                       string             `json:"zip_code"`
	CountryCode                   string             `json:"country_code"`
	OpenFDA                       OpenFDAAnnotations `json:"openfda"`
}

// Classification is one device classification (product code) record.
type Classification struct {
	ProductCode                 string `json:"product_code"`
	DeviceName                  string `json:"device_name"`
	DeviceClass                 string `json:"device_class"`
	ReviewPanel                 string `json:"review_panel"`
	MedicalSpecialty            string `json:"medical_specialty"`
	MedicalSpecialtyDescription string `json:"medical_specialty_description"`
	RegulationNumber            string `json:"regulation_number"`
	SubmissionTypeID            string `json:"submission_type_id"`
	Definition                  string `json:"definition"`
	ImplantFlag                 string `json:"implant_flag"`
	LifeSustainSupportFlag      string `json:"life_sustain_support_flag"`
	GMPExemptFlag               string `json:"gmp_exempt_flag"`
	ThirdPartyFlag              string `json:"third_party_flag"`
	ReviewCode                  string `json:"review_code"`
}

// Enforcement is one recall enforcement report.
type Enforcement struct {
	RecallNumber         string `json:"recall_number"`
	Status               string `json:"status"`
	Classification       string `json:"classification"`
	ProductDescription   string `json:"product_description"`
	ReasonForRecall      string `json:"reason_for_recall"`
	RecallingFirm        string `json:"recalling_firm"`
	RecallInitiationDate string `json:"recall_initiation_date"`
	ReportDate           string `json:"report_date"`
	DistributionPattern  string `json:"distribution_pattern"`
	ProductQuantity      string `json:"product_quantity"`
	CodeInfo             string `json:"code_info"`
	VoluntaryMandated    string `json:"voluntary_mandated"`
	State                string `json:"state"`
	Country              string `json:"country"`
}

// EventDevice is the device sub-record on an adverse event report.
type EventDevice struct {
	BrandName               string `json:"brand_name"`
	GenericName             string `json:"generic_name"`
	DeviceReportProductCode string `json:"device_report_product_code"`
	ManufacturerName        string `json:"manufacturer_d_name"`
}

// EventText is one narrative block on an adverse event report.
type EventText struct {
	TextTypeCode string `json:"text_type_code"`
	Text         string `json:"text"`
}

// Event is one MAUDE adverse event report.
type Event struct {
	MDRReportKey     string        `json:"mdr_report_key"`
	EventType        string        `json:"event_type"`
	DateReceived     string        `json:"date_received"`
	DateOfEvent      string        `json:"date_of_event"`
	ReportSourceCode string        `json:"report_source_code"`
	ProductProblems  []string      `json:"product_problems"`
	RemedialAction   []string      `json:"remedial_action"`
	Devices          []EventDevice `json:"device"`
	MDRText          []EventText   `json:"mdr_text"`
}
