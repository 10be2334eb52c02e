// Package corpus - Embedded loader for the baked-in skill corpus.
// Skill packs (SKILL.md plus reference documents) are compiled into the
// binary with go:embed, so the CLI works without any files on disk.
package corpus

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"regnerd/internal/logging"

	"gopkg.in/yaml.v3"
)

// embeddedSkills contains every file under skills/ baked into the binary.
//
//go:embed skills
var embeddedSkills embed.FS

// Skill is one skill pack: its manifest plus reference documents.
type Skill struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Version      string   `yaml:"version"`
	AllowedTools []string `yaml:"allowed-tools"`

	// Body is the SKILL.md content below the frontmatter.
	Body string `yaml:"-"`
	// Documents are the reference files, keyed by path relative to the
	// skill directory (e.g. "references/decision-tree.md").
	Documents map[string]*Document `yaml:"-"`
}

// Document is one markdown file in a skill pack.
type Document struct {
	Path     string // relative to the skill directory
	Title    string // first H1, or the filename
	Content  string
	Sections []Section
}

// Corpus is the loaded set of skills.
type Corpus struct {
	skills map[string]*Skill
}

// Load reads every skill pack from the embedded filesystem.
func Load() (*Corpus, error) {
	timer := logging.StartTimer(logging.CategoryCorpus, "corpus.Load")
	defer timer.Stop()

	c := &Corpus{skills: make(map[string]*Skill)}

	entries, err := fs.ReadDir(embeddedSkills, "skills")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded skills: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skill, err := loadSkill(path.Join("skills", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("skill %s: %w", entry.Name(), err)
		}
		c.skills[skill.Name] = skill
	}

	logging.Corpus("loaded %d skill(s) from embedded corpus", len(c.skills))
	return c, nil
}

// MustLoad loads the embedded corpus and panics on error. The corpus
// ships inside the binary, so a load failure is a build defect.
func MustLoad() *Corpus {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("embedded skill corpus invalid: %v", err))
	}
	return c
}

// loadSkill parses one skill directory: the SKILL.md manifest and every
// other markdown file as a reference document.
func loadSkill(dir string) (*Skill, error) {
	manifest, err := embeddedSkills.ReadFile(path.Join(dir, "SKILL.md"))
	if err != nil {
		return nil, fmt.Errorf("missing SKILL.md: %w", err)
	}

	skill, err := parseManifest(string(manifest))
	if err != nil {
		return nil, err
	}
	skill.Documents = make(map[string]*Document)

	err = fs.WalkDir(embeddedSkills, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") || path.Base(p) == "SKILL.md" {
			return nil
		}

		data, err := embeddedSkills.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		rel := strings.TrimPrefix(p, dir+"/")
		content := string(data)
		skill.Documents[rel] = &Document{
			Path:     rel,
			Title:    documentTitle(content, rel),
			Content:  content,
			Sections: SplitSections(content),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return skill, nil
}

// parseManifest splits YAML frontmatter from the markdown body.
func parseManifest(content string) (*Skill, error) {
	const fence = "---"

	rest, ok := strings.CutPrefix(content, fence+"\n")
	if !ok {
		return nil, fmt.Errorf("SKILL.md missing frontmatter")
	}
	front, body, ok := strings.Cut(rest, "\n"+fence)
	if !ok {
		return nil, fmt.Errorf("SKILL.md frontmatter not terminated")
	}

	var skill Skill
	if err := yaml.Unmarshal([]byte(front), &skill); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if skill.Name == "" {
		return nil, fmt.Errorf("SKILL.md frontmatter missing name")
	}

	skill.Body = strings.TrimSpace(strings.TrimPrefix(body, "\n"))
	return &skill, nil
}

func documentTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return path.Base(fallback)
}

// Get returns a skill by name.
func (c *Corpus) Get(name string) (*Skill, bool) {
	s, ok := c.skills[name]
	return s, ok
}

// List returns all skills sorted by name.
func (c *Corpus) List() []*Skill {
	out := make([]*Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Document returns one reference document from a skill.
func (s *Skill) Document(rel string) (*Document, bool) {
	d, ok := s.Documents[rel]
	return d, ok
}

// DocumentPaths returns the skill's reference paths, sorted.
func (s *Skill) DocumentPaths() []string {
	out := make([]string, 0, len(s.Documents))
	for p := range s.Documents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FS exposes the raw embedded filesystem rooted at skills/. The
// installer copies from it verbatim.
func FS() fs.FS {
	sub, err := fs.Sub(embeddedSkills, "skills")
	if err != nil {
		panic(err)
	}
	return sub
}
