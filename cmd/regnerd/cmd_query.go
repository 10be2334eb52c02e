package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"regnerd/internal/openfda"

	"github.com/spf13/cobra"
)

var (
	querySearch []string
	queryRaw    string
	queryCount  string
	queryLimit  int
	querySkip   int
	querySort   string
	queryJSON   bool
)

// queryCmd runs a search against one openFDA device endpoint
var queryCmd = &cobra.Command{
	Use:   "query [endpoint]",
	Short: "Search an openFDA device endpoint",
	Long: `Searches one of the openFDA device endpoints. Search terms are
field:value pairs joined with AND; use --raw for full openFDA syntax.

Endpoints: 510k, classification, enforcement, event, recall,
registrationlisting, pma, udi.

Examples:
  regnerd query 510k --search product_code:FRN --limit 5
  regnerd query 510k --search applicant:"Acme Medical" --sort decision_date:desc
  regnerd query 510k --count decision_code
  regnerd query classification --search review_panel:CV --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

// fieldsCmd lists the searchable fields of an endpoint
var fieldsCmd = &cobra.Command{
	Use:   "fields [endpoint]",
	Short: "List searchable fields for an openFDA device endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFields,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&querySearch, "search", "s", nil, "Search term field:value (repeatable, joined with AND)")
	queryCmd.Flags().StringVar(&queryRaw, "raw", "", "Raw openFDA search expression (bypasses field validation)")
	queryCmd.Flags().StringVar(&queryCount, "count", "", "Count buckets by field instead of returning records")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 10, "Maximum records to return (max 1000)")
	queryCmd.Flags().IntVar(&querySkip, "skip", 0, "Records to skip (max 25000)")
	queryCmd.Flags().StringVar(&querySort, "sort", "", "Sort field, optionally with :asc or :desc")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Emit raw JSON records")
}

func buildQuery() (*openfda.Query, error) {
	q := openfda.NewQuery()

	for _, term := range querySearch {
		field, value, ok := strings.Cut(term, ":")
		if !ok {
			return nil, fmt.Errorf("search term %q is not field:value", term)
		}
		q.Search(field, value)
	}
	if queryRaw != "" {
		q.SearchRaw(queryRaw)
	}
	if queryCount != "" {
		q.Count(queryCount)
	} else {
		q.Limit(queryLimit)
		if querySkip > 0 {
			q.Skip(querySkip)
		}
	}
	if querySort != "" {
		field, dir, _ := strings.Cut(querySort, ":")
		q.Sort(field, dir == "desc")
	}
	return q, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	endpoint, err := openfda.ParseEndpoint(args[0])
	if err != nil {
		return err
	}
	q, err := buildQuery()
	if err != nil {
		return err
	}

	client, store, err := newAPIClient()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if queryCount != "" {
		buckets, err := client.CountBy(ctx, endpoint, q, queryCount)
		if openfda.IsNoResults(err) {
			fmt.Println(dimStyle.Render("No matches."))
			return nil
		}
		if err != nil {
			return err
		}
		printCounts(queryCount, buckets)
		return nil
	}

	env, err := client.Do(ctx, endpoint, q)
	if openfda.IsNoResults(err) {
		fmt.Println(dimStyle.Render("No matches."))
		return nil
	}
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(env.Results)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("🔍 %s — %d of %d match(es)",
		endpoint, len(env.Results), env.Meta.Results.Total)))
	fmt.Println()

	switch endpoint {
	case openfda.Endpoint510k:
		print510kTable(env)
	case openfda.EndpointClassification:
		printClassificationTable(env)
	default:
		// Generic endpoints render as indented JSON per record.
		for i, raw := range env.Results {
			var pretty map[string]any
			if err := json.Unmarshal(raw, &pretty); err != nil {
				continue
			}
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Printf("%s %s\n", headerStyle.Render(fmt.Sprintf("[%d]", i+1)), out)
		}
	}

	if env.Meta.Results.Total > len(env.Results)+env.Meta.Results.Skip {
		fmt.Println(dimStyle.Render(fmt.Sprintf(
			"\n%d more match(es); use --skip %d",
			env.Meta.Results.Total-len(env.Results)-env.Meta.Results.Skip,
			env.Meta.Results.Skip+len(env.Results))))
	}
	return nil
}

func print510kTable(env *openfda.Envelope) {
	fmt.Printf("%-10s %-12s %-6s %-30s %s\n",
		headerStyle.Render("K NUMBER"), "DECISION", "CODE", "APPLICANT", "DEVICE")
	for _, raw := range env.Results {
		var rec openfda.K510
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		fmt.Printf("%-10s %-12s %-6s %-30s %s\n",
			rec.KNumber,
			rec.DecisionDate,
			rec.DecisionCode,
			truncateStr(rec.Applicant, 30),
			truncateStr(rec.DeviceName, 40))
	}
}

func printClassificationTable(env *openfda.Envelope) {
	fmt.Printf("%-6s %-7s %-10s %-6s %s\n",
		headerStyle.Render("CODE"), "CLASS", "REG", "PANEL", "NAME")
	for _, raw := range env.Results {
		var rec openfda.Classification
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		fmt.Printf("%-6s %-7s %-10s %-6s %s\n",
			rec.ProductCode, rec.DeviceClass, rec.RegulationNumber,
			rec.ReviewPanel, truncateStr(rec.DeviceName, 50))
	}
}

func printCounts(field string, buckets []openfda.CountResult) {
	fmt.Println(titleStyle.Render("📊 count by " + field))
	var max int
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	for _, b := range buckets {
		term := b.Term
		if term == "" {
			term = b.Time
		}
		bar := ""
		if max > 0 {
			bar = strings.Repeat("█", b.Count*30/max)
		}
		fmt.Printf("%-24s %8d %s\n", truncateStr(term, 24), b.Count, dimStyle.Render(bar))
	}
}

func runFields(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(titleStyle.Render("openFDA device endpoints"))
		for _, e := range openfda.AllEndpoints() {
			fmt.Printf("  %-28s %s\n", headerStyle.Render(string(e)), e.Description())
		}
		return nil
	}

	endpoint, err := openfda.ParseEndpoint(args[0])
	if err != nil {
		return err
	}
	fields, err := endpoint.Fields()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(string(endpoint) + " — searchable fields"))
	for _, name := range endpoint.FieldNames() {
		f := fields[name]
		fmt.Printf("  %-38s %s\n", headerStyle.Render(name), f.Description)
	}
	fmt.Println(dimStyle.Render("\nAppend .exact for whole-phrase matching and counting."))
	return nil
}
