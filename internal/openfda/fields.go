package openfda

// Field tables per endpoint. These mirror the openFDA device dataset
// dictionaries and are the single source of truth: the `regnerd fields`
// command prints them and the query builder validates against them.
//
// Exact-match variants (field.exact) are accepted implicitly for every
// string field, so they are not listed separately.

var endpoints = map[Endpoint]endpointInfo{
	Endpoint510k: {
		Description: "510(k) premarket notifications (1976-present)",
		Fields: map[string]Field{
			"k_number":                  {"510(k) number, e.g. K123456", "string"},
			"applicant":                 {"Applicant (submitter) name", "string"},
			"contact":                   {"Submission correspondent", "string"},
			"device_name":               {"Trade/proprietary device name on the submission", "string"},
			"decision_code":             {"Decision code, e.g. SESE (SE), SESK, SEKD, SN (NSE)", "string"},
			"decision_description":      {"Decision in plain text", "string"},
			"decision_date":             {"Date of the final decision", "date"},
			"date_received":             {"Date FDA received the submission", "date"},
			"clearance_type":            {"Traditional, Special, Abbreviated, or De Novo track", "string"},
			"product_code":              {"Three-letter classification product code", "string"},
			"advisory_committee":        {"Review panel code, e.g. CV, OR, RA", "string"},
			"advisory_committee_description": {"Review panel in plain text", "string"},
			"review_advisory_committee": {"Panel that actually reviewed the submission", "string"},
			"expedited_review_flag":     {"Y if granted expedited review", "string"},
			"statement_or_summary":      {"Whether a 510(k) statement or summary was filed", "string"},
			"third_party_flag":          {"Y if reviewed under the Third Party program", "string"},
			"city":                      {"Applicant city", "string"},
			"state":                     {"Applicant state", "string"},
			"country_code":              {"Applicant country code", "string"},
			"zip_code":                  {"Applicant ZIP code", "string"},
			"openfda.device_class":      {"Device class (1, 2, 3) from the classification join", "string"},
			"openfda.regulation_number": {"21 CFR regulation number from the classification join", "string"},
			"openfda.medical_specialty_description": {"Medical specialty from the classification join", "string"},
		},
	},
	EndpointClassification: {
		Description: "Device classification database (product codes)",
		Fields: map[string]Field{
			"product_code":                  {"Three-letter product code", "string"},
			"device_name":                   {"Official classification device name", "string"},
			"device_class":                  {"1, 2, 3, U, N, or F", "string"},
			"review_panel":                  {"Review panel code, e.g. CV, HO, OR", "string"},
			"medical_specialty":             {"Medical specialty code", "string"},
			"medical_specialty_description": {"Medical specialty in plain text", "string"},
			"regulation_number":             {"21 CFR section, e.g. 870.3610", "string"},
			"submission_type_id":            {"1=510(k), 2=PMA, 4=exempt, 7=HDE", "string"},
			"definition":                    {"Classification definition text", "string"},
			"implant_flag":                  {"Y if an implant", "string"},
			"life_sustain_support_flag":     {"Y if life-sustaining/supporting", "string"},
			"gmp_exempt_flag":               {"Y if exempt from GMP requirements", "string"},
			"third_party_flag":              {"Y if eligible for Third Party review", "string"},
			"review_code":                   {"Premarket review organization code (OHT assignment)", "string"},
			"unclassified_reason":           {"Reason a device is unclassified", "string"},
		},
	},
	EndpointEnforcement: {
		Description: "Device recall enforcement reports",
		Fields: map[string]Field{
			"recall_number":           {"FDA recall number, e.g. Z-1234-2024", "string"},
			"status":                  {"Ongoing, Completed, or Terminated", "string"},
			"classification":          {"Class I, Class II, or Class III severity", "string"},
			"product_description":     {"Description of the recalled product", "string"},
			"reason_for_recall":       {"Firm's stated reason for the recall", "string"},
			"recalling_firm":          {"Recalling firm name", "string"},
			"recall_initiation_date":  {"Date the firm initiated the recall", "date"},
			"report_date":             {"Date FDA published the report", "date"},
			"distribution_pattern":    {"Geographic distribution of the product", "string"},
			"product_quantity":        {"Quantity of product in commerce", "string"},
			"code_info":               {"Lot/serial numbers affected", "string"},
			"voluntary_mandated":      {"Voluntary vs FDA-mandated", "string"},
			"state":                   {"Recalling firm state", "string"},
			"country":                 {"Recalling firm country", "string"},
		},
	},
	EndpointEvent: {
		Description: "MAUDE medical device adverse event reports",
		Fields: map[string]Field{
			"mdr_report_key":                 {"Unique MDR report key", "string"},
			"event_type":                     {"Death, Injury, Malfunction, Other", "string"},
			"date_received":                  {"Date FDA received the report", "date"},
			"date_of_event":                  {"Date the event occurred", "date"},
			"report_source_code":             {"Manufacturer, voluntary, user facility, distributor", "string"},
			"device.brand_name":              {"Device brand name", "string"},
			"device.generic_name":            {"Device generic name", "string"},
			"device.device_report_product_code": {"Product code on the report", "string"},
			"device.manufacturer_d_name":     {"Device manufacturer name", "string"},
			"patient.sequence_number_outcome": {"Patient outcome codes", "string"},
			"mdr_text.text":                  {"Narrative text (event description)", "string"},
			"product_problems":               {"Coded product problems", "string"},
			"remedial_action":                {"Recall, repair, replace, etc.", "string"},
		},
	},
	EndpointRecall: {
		Description: "Device recalls (RES) database",
		Fields: map[string]Field{
			"res_event_number":        {"Recall event number", "string"},
			"product_code":            {"Three-letter product code", "string"},
			"product_res_number":      {"Product-level recall number", "string"},
			"firm_fei_number":         {"Recalling firm FEI number", "string"},
			"recalling_firm":          {"Recalling firm name", "string"},
			"event_date_initiated":    {"Date the recall was initiated", "date"},
			"event_date_posted":       {"Date posted to RES", "date"},
			"recall_status":           {"Open, Completed, or Terminated", "string"},
			"root_cause_description":  {"Root cause determined by FDA", "string"},
			"action":                  {"Action taken by the firm", "string"},
			"k_numbers":               {"Associated 510(k) numbers", "string"},
			"pma_numbers":             {"Associated PMA numbers", "string"},
		},
	},
	EndpointRegistration: {
		Description: "Establishment registration and device listings",
		Fields: map[string]Field{
			"registration.registration_number": {"Establishment registration number", "string"},
			"registration.fei_number":          {"FEI number", "string"},
			"registration.name":                {"Establishment name", "string"},
			"registration.city":                {"Establishment city", "string"},
			"registration.state_code":          {"Establishment state", "string"},
			"registration.iso_country_code":    {"Establishment country", "string"},
			"registration.owner_operator.firm_name": {"Owner/operator firm name", "string"},
			"proprietary_name":                 {"Listed proprietary name(s)", "string"},
			"establishment_type":               {"Manufacturer, specification developer, etc.", "string"},
			"products.product_code":            {"Listed product code", "string"},
			"products.created_date":            {"Listing creation date", "date"},
		},
	},
	EndpointPMA: {
		Description: "Premarket approval (PMA) decisions",
		Fields: map[string]Field{
			"pma_number":           {"PMA number, e.g. P123456", "string"},
			"supplement_number":    {"Supplement number, e.g. S001", "string"},
			"applicant":            {"Applicant name", "string"},
			"trade_name":           {"Device trade name", "string"},
			"generic_name":         {"Device generic name", "string"},
			"product_code":         {"Three-letter product code", "string"},
			"advisory_committee":   {"Review panel code", "string"},
			"decision_code":        {"APPR, DENY, WTDR, etc.", "string"},
			"decision_date":        {"Date of the decision", "date"},
			"date_received":        {"Date FDA received the application", "date"},
			"supplement_type":      {"Panel-track, 180-day, real-time, etc.", "string"},
			"expedited_review_flag": {"Y if granted expedited review", "string"},
		},
	},
	EndpointUDI: {
		Description: "Unique device identification (GUDID) records",
		Fields: map[string]Field{
			"identifiers.id":           {"Device identifier (DI)", "string"},
			"brand_name":               {"Brand name", "string"},
			"version_or_model_number":  {"Version or model number", "string"},
			"company_name":             {"Labeler company name", "string"},
			"product_codes.code":       {"Associated product code(s)", "string"},
			"device_description":       {"Device description", "string"},
			"is_single_use":            {"true if single use", "string"},
			"is_rx":                    {"true if prescription use", "string"},
			"sterilization.is_sterile": {"true if provided sterile", "string"},
			"publish_date":             {"GUDID publish date", "date"},
		},
	},
}
