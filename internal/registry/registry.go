// Package registry holds the static regulatory taxonomies: product code
// classifications, review panel to OHT office assignments, review-team
// consult triggers, and the substantial equivalence decision sequence.
//
// The product code table is baked into the binary from an embedded CSV.
// It is a working subset of the classification database; anything not in
// the table can still be resolved live via `regnerd query classification`.
package registry

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"regnerd/internal/logging"

	"github.com/jszwec/csvutil"
)

//go:embed data/product_codes.csv
var dataFS embed.FS

// ErrUnknownProductCode means the code is not in the embedded table.
var ErrUnknownProductCode = errors.New("registry: unknown product code")

// ErrUnknownPanel means the review panel code is not recognized.
var ErrUnknownPanel = errors.New("registry: unknown review panel")

var productCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ProductCode is one classification record from the embedded table.
type ProductCode struct {
	Code             string `csv:"code"`
	DeviceName       string `csv:"device_name"`
	DeviceClass      string `csv:"device_class"`
	RegulationNumber string `csv:"regulation_number"`
	ReviewPanel      string `csv:"review_panel"`
}

// Office is the OHT office a review panel maps to.
type Office struct {
	Code string // e.g. OHT2
	Name string
}

// panelOffices maps advisory/review panel codes to the CDRH Office of
// Health Technology that owns them under the 2019 reorganization.
var panelOffices = map[string]Office{
	"AN": {"OHT1", "Office of Ophthalmic, Anesthesia, Respiratory, ENT and Dental Devices"},
	"DE": {"OHT1", "Office of Ophthalmic, Anesthesia, Respiratory, ENT and Dental Devices"},
	"EN": {"OHT1", "Office of Ophthalmic, Anesthesia, Respiratory, ENT and Dental Devices"},
	"OP": {"OHT1", "Office of Ophthalmic, Anesthesia, Respiratory, ENT and Dental Devices"},
	"CV": {"OHT2", "Office of Cardiovascular Devices"},
	"GU": {"OHT3", "Office of Gastrorenal, ObGyn, General Hospital and Urology Devices"},
	"HO": {"OHT3", "Office of Gastrorenal, ObGyn, General Hospital and Urology Devices"},
	"OB": {"OHT3", "Office of Gastrorenal, ObGyn, General Hospital and Urology Devices"},
	"SU": {"OHT4", "Office of Surgical and Infection Control Devices"},
	"NE": {"OHT5", "Office of Neurological and Physical Medicine Devices"},
	"PM": {"OHT5", "Office of Neurological and Physical Medicine Devices"},
	"OR": {"OHT6", "Office of Orthopedic Devices"},
	"CH": {"OHT7", "Office of In Vitro Diagnostics"},
	"HE": {"OHT7", "Office of In Vitro Diagnostics"},
	"IM": {"OHT7", "Office of In Vitro Diagnostics"},
	"MI": {"OHT7", "Office of In Vitro Diagnostics"},
	"PA": {"OHT7", "Office of In Vitro Diagnostics"},
	"TX": {"OHT7", "Office of In Vitro Diagnostics"},
	"RA": {"OHT8", "Office of Radiological Health"},
}

var productCodes map[string]ProductCode

func init() {
	table, err := loadProductCodes()
	if err != nil {
		// The CSV ships inside the binary; failure to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("registry: embedded product code table invalid: %v", err))
	}
	productCodes = table
}

// loadProductCodes decodes the embedded CSV into the lookup map.
func loadProductCodes() (map[string]ProductCode, error) {
	data, err := dataFS.ReadFile("data/product_codes.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded table: %w", err)
	}

	decoder, err := csvutil.NewDecoder(csv.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var records []ProductCode
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	table := make(map[string]ProductCode, len(records))
	for _, rec := range records {
		if !productCodeRe.MatchString(rec.Code) {
			return nil, fmt.Errorf("invalid product code %q", rec.Code)
		}
		if _, dup := table[rec.Code]; dup {
			return nil, fmt.Errorf("duplicate product code %q", rec.Code)
		}
		table[rec.Code] = rec
	}
	return table, nil
}

// LookupProductCode resolves a three-letter product code to its
// classification record. Lookup is case-insensitive.
func LookupProductCode(code string) (*ProductCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !productCodeRe.MatchString(code) {
		return nil, fmt.Errorf("%w: %q (product codes are three letters)", ErrUnknownProductCode, code)
	}

	rec, ok := productCodes[code]
	if !ok {
		logging.Registry("miss for product code %s", code)
		return nil, fmt.Errorf("%w: %q", ErrUnknownProductCode, code)
	}
	return &rec, nil
}

// PanelOffice resolves a review panel code to its OHT office.
func PanelOffice(panel string) (*Office, error) {
	office, ok := panelOffices[strings.ToUpper(strings.TrimSpace(panel))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanel, panel)
	}
	return &office, nil
}

// Office resolves the owning office for a product code in one step.
func (p *ProductCode) Office() (*Office, error) {
	return PanelOffice(p.ReviewPanel)
}

// Codes returns every product code in the embedded table.
func Codes() []string {
	out := make([]string, 0, len(productCodes))
	for code := range productCodes {
		out = append(out, code)
	}
	return out
}

// Panels returns the panel code -> office mapping for display.
func Panels() map[string]Office {
	out := make(map[string]Office, len(panelOffices))
	for k, v := range panelOffices {
		out[k] = v
	}
	return out
}
