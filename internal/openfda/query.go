package openfda

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Caps enforced by the openFDA API itself. Enforced client-side so a bad
// request never leaves the machine.
const (
	MaxLimit = 1000
	MaxSkip  = 25000
)

// Query builds an openFDA search. Zero value is usable: no search term
// fetches the endpoint's default ordering.
//
//	q := openfda.NewQuery().
//		Search("device_name", "insulin pump").
//		DateRange("decision_date", "20240101", "20241231").
//		Limit(25)
type Query struct {
	terms    []string
	fields   []string // fields referenced by Search/DateRange/Exists, for validation
	operator string   // AND (default) or OR
	count    string
	sortBy   string
	sortDesc bool
	limit    int
	skip     int
}

// NewQuery returns an empty query joined with AND.
func NewQuery() *Query {
	return &Query{operator: "AND"}
}

// Search adds a field:value term. Values containing spaces are quoted so
// they match as a phrase.
func (q *Query) Search(field, value string) *Query {
	q.fields = append(q.fields, field)
	if strings.ContainsAny(value, " \t") {
		value = `"` + value + `"`
	}
	q.terms = append(q.terms, field+":"+value)
	return q
}

// SearchRaw adds a pre-built search expression verbatim. No field
// validation is applied; the server has the final word.
func (q *Query) SearchRaw(expr string) *Query {
	q.terms = append(q.terms, expr)
	return q
}

// DateRange adds an inclusive [from TO to] range term. Dates use the
// openFDA YYYYMMDD form.
func (q *Query) DateRange(field, from, to string) *Query {
	q.fields = append(q.fields, field)
	q.terms = append(q.terms, fmt.Sprintf("%s:[%s TO %s]", field, from, to))
	return q
}

// Exists restricts results to records where the field is populated.
func (q *Query) Exists(field string) *Query {
	q.fields = append(q.fields, field)
	q.terms = append(q.terms, "_exists_:"+field)
	return q
}

// Or joins terms with OR instead of the default AND.
func (q *Query) Or() *Query {
	q.operator = "OR"
	return q
}

// Count requests term counts on the given field instead of full records.
func (q *Query) Count(field string) *Query {
	q.count = field
	return q
}

// Sort orders results by the given field.
func (q *Query) Sort(field string, desc bool) *Query {
	q.sortBy = field
	q.sortDesc = desc
	return q
}

// Limit caps the number of returned records (server max 1000).
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Skip offsets into the result set (server max 25000).
func (q *Query) Skip(n int) *Query {
	q.skip = n
	return q
}

// IsCount reports whether this is a count query.
func (q *Query) IsCount() bool {
	return q.count != ""
}

// searchString joins the terms with the configured operator.
func (q *Query) searchString() string {
	return strings.Join(q.terms, "+"+q.operator+"+")
}

// Values renders the query as URL parameters, enforcing server caps.
// The search expression is assembled with '+' separators that must not be
// re-encoded, so it is attached by Client when the URL is built.
func (q *Query) Values() (url.Values, error) {
	if q.limit < 0 || q.limit > MaxLimit {
		return nil, fmt.Errorf("limit %d out of range (max %d)", q.limit, MaxLimit)
	}
	if q.skip < 0 || q.skip > MaxSkip {
		return nil, fmt.Errorf("skip %d out of range (max %d)", q.skip, MaxSkip)
	}
	if q.skip > 0 && q.count != "" {
		return nil, fmt.Errorf("skip cannot be combined with count")
	}

	v := url.Values{}
	if q.count != "" {
		v.Set("count", q.count)
	}
	if q.sortBy != "" {
		dir := "asc"
		if q.sortDesc {
			dir = "desc"
		}
		v.Set("sort", q.sortBy+":"+dir)
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	if q.skip > 0 {
		v.Set("skip", strconv.Itoa(q.skip))
	}
	return v, nil
}

// ValidateFields checks every referenced field against the endpoint's
// field table. Count and sort fields are included. Unknown fields get a
// best-effort suggestion.
func (q *Query) ValidateFields(e Endpoint) error {
	table, err := e.Fields()
	if err != nil {
		return err
	}

	check := make([]string, 0, len(q.fields)+2)
	check = append(check, q.fields...)
	if q.count != "" {
		check = append(check, q.count)
	}
	if q.sortBy != "" {
		check = append(check, q.sortBy)
	}

	for _, f := range check {
		base := strings.TrimSuffix(f, ".exact")
		if _, ok := table[base]; ok {
			continue
		}
		if s := suggestField(base, table); s != "" {
			return fmt.Errorf("%w: %q on %s (did you mean %q?)", ErrUnknownField, f, e, s)
		}
		return fmt.Errorf("%w: %q on %s", ErrUnknownField, f, e)
	}
	return nil
}

// suggestField finds a field sharing a substring with the unknown name.
func suggestField(name string, table map[string]Field) string {
	name = strings.ToLower(name)
	candidates := make([]string, 0, len(table))
	for f := range table {
		candidates = append(candidates, f)
	}
	sort.Strings(candidates)

	for _, f := range candidates {
		if strings.Contains(f, name) || strings.Contains(name, f) {
			return f
		}
	}
	// Fall back to a shared token, e.g. "decision" in "decision_date".
	for _, tok := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '.' }) {
		if len(tok) < 4 {
			continue
		}
		for _, f := range candidates {
			if strings.Contains(f, tok) {
				return f
			}
		}
	}
	return ""
}

// Key returns a stable normalized key for response caching. The API key
// is never part of the cache key.
func (q *Query) Key(e Endpoint) string {
	v, err := q.Values()
	if err != nil {
		// Invalid queries never reach the cache; key is unused.
		return ""
	}
	return string(e) + "?search=" + q.searchString() + "&" + v.Encode()
}
