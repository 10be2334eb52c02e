package letter

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleLetter() *Letter {
	return &Letter{
		SubmissionID: "K241234",
		DeviceName:   "Acme Infusion Pump",
		Applicant:    "Acme Medical, Inc.",
		Contact:      "Jordan Lee",
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Deficiencies: []Deficiency{
			{
				Section:     "Biocompatibility",
				Citation:    "ISO 10993-1",
				Description: "The submission does not identify the nature and duration of patient contact for the administration set.",
				Request:     "Provide a biological evaluation plan addressing all applicable endpoints.",
			},
			{
				Section:     "Software",
				Description: "The software documentation level is not justified.",
				Request:     "Provide a documentation level evaluation per the premarket software guidance.",
			},
		},
	}
}

func TestRenderAI(t *testing.T) {
	out, err := Render("ai", sampleLetter())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"March 15, 2026",
		"Re: K241234",
		"Acme Infusion Pump",
		"additional information is needed",
		"1. Biocompatibility:",
		"See ISO 10993-1.",
		"2. Software:",
		"within 180 days",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("AI letter missing %q", want)
		}
	}
	if strings.Contains(out, "NOT SUBSTANTIALLY EQUIVALENT") {
		t.Error("AI letter must not contain the NSE determination")
	}
}

func TestRenderNSE(t *testing.T) {
	out, err := Render("nse", sampleLetter())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"NOT SUBSTANTIALLY EQUIVALENT",
		"class III",
		"De Novo",
		"1. Biocompatibility:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("NSE letter missing %q", want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("rta", sampleLetter())
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if !strings.Contains(err.Error(), "ai, nse") {
		t.Errorf("error should list available templates: %v", err)
	}
}

func TestRenderCaseInsensitiveName(t *testing.T) {
	if _, err := Render("AI", sampleLetter()); err != nil {
		t.Errorf("template names should be case-insensitive: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Letter)
		ok     bool
	}{
		{"valid", func(l *Letter) {}, true},
		{"missing submission id", func(l *Letter) { l.SubmissionID = " " }, false},
		{"no deficiencies", func(l *Letter) { l.Deficiencies = nil }, false},
		{"empty description", func(l *Letter) { l.Deficiencies[0].Description = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sampleLetter()
			tt.mutate(l)
			err := l.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRenderDefaultsMissingNames(t *testing.T) {
	l := sampleLetter()
	l.Contact = ""
	l.Applicant = ""

	out, err := Render("ai", l)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Dear Regulatory Contact:") {
		t.Error("missing contact should fall back to a generic salutation")
	}
}

func TestTemplates(t *testing.T) {
	got := Templates()
	if len(got) != 2 || got[0] != "ai" || got[1] != "nse" {
		t.Errorf("Templates() = %v", got)
	}
}
