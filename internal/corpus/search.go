package corpus

import (
	"sort"
	"strings"
	"unicode"

	"regnerd/internal/logging"
)

// =============================================================================
// CORPUS SEARCH - Keyword scoring over skill documents
// =============================================================================

// SearchResult is one scored section of a reference document.
type SearchResult struct {
	Skill    string
	Document string
	Section  string
	Score    float64
	Snippet  string
}

// commonWords are filtered out of queries before scoring. Generic review
// vocabulary would otherwise match every document in the pack.
var commonWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "for": true, "on": true,
	"with": true, "is": true, "are": true, "be": true, "this": true,
	"that": true, "what": true, "how": true, "when": true, "which": true,
	"device": true, "fda": true, "review": true, "submission": true,
	"do": true, "does": true, "i": true, "my": true, "it": true,
}

// extractKeywords lowercases the query, splits on non-alphanumerics,
// and drops common words and single characters.
func extractKeywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var out []string
	for _, f := range fields {
		if len(f) < 2 || commonWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Search scores every section of every document against the query.
// Title hits weigh more than body hits, and a section matching more
// distinct keywords outranks one repeating a single keyword.
func (c *Corpus) Search(query string, maxResults int) []SearchResult {
	keywords := extractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	var results []SearchResult
	for _, skill := range c.List() {
		for _, doc := range skill.Documents {
			for _, sec := range doc.Sections {
				score := scoreSection(sec, keywords)
				if score <= 0 {
					continue
				}
				results = append(results, SearchResult{
					Skill:    skill.Name,
					Document: doc.Path,
					Section:  sec.Title,
					Score:    score,
					Snippet:  snippet(sec.Body, keywords),
				})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		// Stable order for equal scores.
		if results[i].Document != results[j].Document {
			return results[i].Document < results[j].Document
		}
		return results[i].Section < results[j].Section
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	logging.CorpusDebug("search %q matched %d sections", query, len(results))
	return results
}

const (
	titleWeight = 3.0
	bodyWeight  = 1.0
	uniqueBoost = 2.0 // per distinct keyword matched
)

func scoreSection(sec Section, keywords []string) float64 {
	title := strings.ToLower(sec.Title)
	body := strings.ToLower(sec.Body)

	var score float64
	matched := 0
	for _, kw := range keywords {
		hit := false
		if strings.Contains(title, kw) {
			score += titleWeight
			hit = true
		}
		if n := strings.Count(body, kw); n > 0 {
			// Diminishing returns: repeats add less than first hit.
			score += bodyWeight + float64(n-1)*0.1
			hit = true
		}
		if hit {
			matched++
		}
	}
	if matched > 1 {
		score += float64(matched-1) * uniqueBoost
	}
	return score
}

// snippet returns the first body line containing a keyword, trimmed.
func snippet(body string, keywords []string) string {
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				s := strings.TrimSpace(line)
				if len(s) > 120 {
					s = s[:117] + "..."
				}
				return s
			}
		}
	}
	return ""
}
