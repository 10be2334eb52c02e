package corpus

import "strings"

// Section is one header-delimited slice of a markdown document.
type Section struct {
	Title string
	Level int // header level; 0 for content before the first header
	Body  string
}

// SplitSections splits markdown on ATX headers. Content before the
// first header becomes an "(Introduction)" section; a document with no
// headers at all becomes a single "(Document)" section. Fenced code
// blocks are not split even when a line inside them starts with '#'.
func SplitSections(content string) []Section {
	lines := strings.Split(content, "\n")

	var sections []Section
	current := Section{Title: "(Introduction)", Level: 0}
	var body []string
	inFence := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" || current.Level > 0 {
			current.Body = text
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		if !inFence {
			if level, title, ok := parseHeader(trimmed); ok {
				flush()
				current = Section{Title: title, Level: level}
				continue
			}
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		return []Section{{Title: "(Document)", Level: 0, Body: strings.TrimSpace(content)}}
	}
	return sections
}

func parseHeader(line string) (level int, title string, ok bool) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	// ATX headers are 1-6 hashes followed by a space.
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}
