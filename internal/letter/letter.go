// Package letter drafts deficiency correspondence for 510(k) submissions.
// Two templates ship with the binary: an Additional Information (AI)
// request and a Not Substantially Equivalent (NSE) letter. Rendering is
// plain text/template; callers supply a validated Letter.
package letter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"regnerd/internal/logging"
)

// ErrUnknownTemplate means the requested template name does not exist.
var ErrUnknownTemplate = errors.New("letter: unknown template")

// Deficiency is one numbered item in the letter body.
type Deficiency struct {
	Section     string `yaml:"section" json:"section"`         // submission section, e.g. "Biocompatibility"
	Citation    string `yaml:"citation" json:"citation"`       // guidance or standard cited
	Description string `yaml:"description" json:"description"` // what is deficient
	Request     string `yaml:"request" json:"request"`         // what the applicant must provide
}

// Letter carries everything the templates need.
type Letter struct {
	SubmissionID string       `yaml:"submission_id" json:"submission_id"`
	DeviceName   string       `yaml:"device_name" json:"device_name"`
	Applicant    string       `yaml:"applicant" json:"applicant"`
	Contact      string       `yaml:"contact" json:"contact"`
	Deficiencies []Deficiency `yaml:"deficiencies" json:"deficiencies"`

	// Date defaults to today when zero.
	Date time.Time `yaml:"date,omitempty" json:"date,omitempty"`
}

const aiTemplate = `{{.Date}}

{{.Contact}}
{{.Applicant}}

Re: {{.SubmissionID}}
    {{.DeviceName}}

Dear {{.Contact}}:

We are continuing our review of your premarket notification and have
determined that additional information is needed before we can complete
our substantial equivalence determination. Please address each of the
following items:

{{range $i, $d := .Deficiencies}}{{inc $i}}. {{$d.Section}}: {{$d.Description}}
   {{if $d.Citation}}See {{$d.Citation}}. {{end}}{{$d.Request}}

{{end}}Please provide your response within 180 days of the date of this
letter. If we do not receive a complete response within that period,
your submission will be considered withdrawn.

Sincerely,
Lead Reviewer
Office of Health Technology
`

const nseTemplate = `{{.Date}}

{{.Contact}}
{{.Applicant}}

Re: {{.SubmissionID}}
    {{.DeviceName}}

Dear {{.Contact}}:

We have reviewed your premarket notification and have determined that
the device is NOT SUBSTANTIALLY EQUIVALENT to devices marketed in
interstate commerce prior to May 28, 1976, or to devices reclassified
under the Federal Food, Drug, and Cosmetic Act. The device is therefore
classified into class III and may not be marketed without an approved
premarket approval application or a granted De Novo request.

This determination is based on the following:

{{range $i, $d := .Deficiencies}}{{inc $i}}. {{$d.Section}}: {{$d.Description}}
   {{if $d.Citation}}See {{$d.Citation}}. {{end}}{{$d.Request}}

{{end}}You may submit a De Novo classification request under section
513(f)(2) of the Act if you believe the device presents a low to
moderate risk.

Sincerely,
Lead Reviewer
Office of Health Technology
`

var templates = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	for name, body := range map[string]string{
		"ai":  aiTemplate,
		"nse": nseTemplate,
	} {
		templates[name] = template.Must(template.New(name).Funcs(funcs).Parse(body))
	}
}

// Templates lists the available template names, sorted.
func Templates() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the letter has enough content to render.
func (l *Letter) Validate() error {
	if strings.TrimSpace(l.SubmissionID) == "" {
		return errors.New("letter: submission_id is required")
	}
	if len(l.Deficiencies) == 0 {
		return errors.New("letter: at least one deficiency is required")
	}
	for i, d := range l.Deficiencies {
		if strings.TrimSpace(d.Description) == "" {
			return fmt.Errorf("letter: deficiency %d has no description", i+1)
		}
	}
	return nil
}

// Render executes the named template against the letter.
func Render(name string, l *Letter) (string, error) {
	tmpl, ok := templates[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownTemplate, name, strings.Join(Templates(), ", "))
	}
	if err := l.Validate(); err != nil {
		return "", err
	}

	date := l.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Template data mirrors Letter but with a formatted date string.
	data := struct {
		Date         string
		Contact      string
		Applicant    string
		SubmissionID string
		DeviceName   string
		Deficiencies []Deficiency
	}{
		Date:         date.Format("January 2, 2006"),
		Contact:      orDefault(l.Contact, "Regulatory Contact"),
		Applicant:    orDefault(l.Applicant, "Applicant"),
		SubmissionID: l.SubmissionID,
		DeviceName:   orDefault(l.DeviceName, "(device name not provided)"),
		Deficiencies: l.Deficiencies,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("letter: render failed: %w", err)
	}

	logging.Letter("rendered %s letter for %s with %d deficiencies",
		name, l.SubmissionID, len(l.Deficiencies))
	return buf.String(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
