package registry

import "strings"

// ReviewTrigger links a device characteristic to the consult or review
// discipline it pulls into a 510(k) review.
type ReviewTrigger struct {
	ID             string
	Characteristic string
	Consult        string
	Rationale      string
}

// reviewTriggers is ordered the way a lead reviewer walks the submission:
// software first, then sterility, contact, electrical, and the
// cross-cutting items.
var reviewTriggers = []ReviewTrigger{
	{
		ID:             "software",
		Characteristic: "Device contains software or firmware",
		Consult:        "Digital Health / software review",
		Rationale:      "Software documentation level, cybersecurity documentation, and interoperability claims must be assessed against the device's risk.",
	},
	{
		ID:             "sterile",
		Characteristic: "Device is provided sterile or is reprocessed",
		Consult:        "Infection control / sterility review",
		Rationale:      "Sterilization method, SAL, pyrogenicity, and shelf-life validation must be reviewed.",
	},
	{
		ID:             "patient-contact",
		Characteristic: "Device has direct or indirect patient contact",
		Consult:        "Biocompatibility review",
		Rationale:      "Contact type and duration drive the ISO 10993-1 endpoint set.",
	},
	{
		ID:             "electrical",
		Characteristic: "Device is mains- or battery-powered",
		Consult:        "Electrical safety and EMC review",
		Rationale:      "IEC 60601-1 and IEC 60601-1-2 conformance, plus wireless coexistence when RF is present.",
	},
	{
		ID:             "clinical-data",
		Characteristic: "Performance cannot be established by bench testing alone",
		Consult:        "Clinical review",
		Rationale:      "New indications, new patient populations, or bench-to-clinic gaps need clinical performance data.",
	},
	{
		ID:             "cybersecurity",
		Characteristic: "Device connects to a network or exchanges data electronically",
		Consult:        "Cybersecurity review",
		Rationale:      "Section 524B applies to cyber devices: threat model, SBOM, and postmarket update plan.",
	},
	{
		ID:             "human-factors",
		Characteristic: "Use error could cause serious harm",
		Consult:        "Human factors review",
		Rationale:      "Critical tasks must be validated with representative users per the HF guidance.",
	},
}

// Triggers returns the full ordered trigger list.
func Triggers() []ReviewTrigger {
	out := make([]ReviewTrigger, len(reviewTriggers))
	copy(out, reviewTriggers)
	return out
}

// TriggersFor filters the trigger list to the characteristics the caller
// says the device has. Unknown IDs are ignored.
func TriggersFor(ids ...string) []ReviewTrigger {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.ToLower(strings.TrimSpace(id))] = true
	}

	var out []ReviewTrigger
	for _, tr := range reviewTriggers {
		if want[tr.ID] {
			out = append(out, tr)
		}
	}
	return out
}
