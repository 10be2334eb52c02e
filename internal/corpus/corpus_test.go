package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadTestCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadEmbeddedCorpus(t *testing.T) {
	c := loadTestCorpus(t)

	skill, ok := c.Get("fda-510k-review")
	if !ok {
		t.Fatal("fda-510k-review skill missing from embedded corpus")
	}

	if skill.Version == "" {
		t.Error("skill version missing")
	}
	if skill.Description == "" {
		t.Error("skill description missing")
	}
	if len(skill.AllowedTools) == 0 {
		t.Error("allowed-tools missing")
	}
	if !strings.Contains(skill.Body, "## Workflow") {
		t.Error("SKILL.md body lost its markdown content")
	}
}

func TestSkillReferences(t *testing.T) {
	c := loadTestCorpus(t)
	skill, _ := c.Get("fda-510k-review")

	for _, want := range []string{
		"references/review-structure.md",
		"references/decision-tree.md",
		"references/openfda-fields.md",
		"references/querying-openfda.md",
		"references/deficiency-letters.md",
	} {
		doc, ok := skill.Document(want)
		if !ok {
			t.Errorf("missing reference %s", want)
			continue
		}
		if doc.Title == "" || len(doc.Sections) == 0 {
			t.Errorf("reference %s not parsed: title=%q sections=%d",
				want, doc.Title, len(doc.Sections))
		}
	}
}

func TestParseManifest_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "# Just markdown\n"},
		{"unterminated", "---\nname: x\n"},
		{"missing name", "---\ndescription: d\n---\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseManifest(tt.content); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestSplitSections(t *testing.T) {
	md := `intro text

# Title

body one

## Sub A

body a

## Sub B

` + "```\n# not a header\n```" + `
body b
`
	secs := SplitSections(md)
	if len(secs) != 4 {
		t.Fatalf("expected 4 sections, got %d: %+v", len(secs), secs)
	}
	if secs[0].Title != "(Introduction)" || !strings.Contains(secs[0].Body, "intro text") {
		t.Errorf("intro section wrong: %+v", secs[0])
	}
	if secs[1].Title != "Title" || secs[1].Level != 1 {
		t.Errorf("h1 section wrong: %+v", secs[1])
	}
	if secs[3].Title != "Sub B" || !strings.Contains(secs[3].Body, "# not a header") {
		t.Errorf("fenced header was split: %+v", secs[3])
	}
}

func TestSplitSections_NoHeaders(t *testing.T) {
	secs := SplitSections("plain text only")
	if len(secs) != 1 || secs[0].Title != "(Document)" {
		t.Errorf("expected single (Document) section, got %+v", secs)
	}
}

func TestSearch(t *testing.T) {
	c := loadTestCorpus(t)

	results := c.Search("predicate substantial equivalence decision", 5)
	if len(results) == 0 {
		t.Fatal("no results for decision sequence query")
	}
	if !strings.Contains(results[0].Document, "decision-tree") {
		t.Errorf("top hit should be the decision tree, got %s / %s",
			results[0].Document, results[0].Section)
	}

	if got := c.Search("the a of", 5); got != nil {
		t.Errorf("common-word-only query should match nothing, got %d", len(got))
	}
}

func TestSearch_RateLimits(t *testing.T) {
	c := loadTestCorpus(t)

	results := c.Search("rate limit 429 retry", 3)
	if len(results) == 0 {
		t.Fatal("no results for rate limit query")
	}
	if !strings.Contains(results[0].Document, "querying-openfda") {
		t.Errorf("top hit should be the query guide, got %s", results[0].Document)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("How do I find the predicate for my device?")
	want := map[string]bool{"find": true, "predicate": true}
	if len(got) != len(want) {
		t.Fatalf("keywords = %v", got)
	}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
}

func TestInstall(t *testing.T) {
	home := t.TempDir()

	n, err := Install("claude", home)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if n < 6 {
		t.Errorf("expected at least 6 installed files, got %d", n)
	}

	manifest := filepath.Join(home, ".claude", "skills", "fda-510k-review", "SKILL.md")
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("installed SKILL.md unreadable: %v", err)
	}
	if !strings.Contains(string(data), "name: fda-510k-review") {
		t.Error("installed manifest content wrong")
	}
}

func TestInstall_UnknownTarget(t *testing.T) {
	if _, err := Install("emacs", t.TempDir()); err == nil {
		t.Error("expected error for unknown target")
	}
}

func TestInstallDir(t *testing.T) {
	tests := []struct {
		target string
		suffix string
	}{
		{"claude", ".claude/skills"},
		{"codex", ".codex/skills"},
		{"agent", ".agent/skills"},
	}
	for _, tt := range tests {
		dir, err := InstallDir(tt.target, "/home/u")
		if err != nil {
			t.Fatalf("InstallDir(%s): %v", tt.target, err)
		}
		if !strings.HasSuffix(dir, filepath.FromSlash(tt.suffix)) {
			t.Errorf("InstallDir(%s) = %s", tt.target, dir)
		}
	}
}
