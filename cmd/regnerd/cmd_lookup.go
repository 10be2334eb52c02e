package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"regnerd/internal/openfda"
	"regnerd/internal/registry"

	"github.com/spf13/cobra"
)

var (
	lookupLive      bool
	lookupPanel     string
	lookupPanelOnly bool
)

// lookupCmd resolves a product code to its classification and office
var lookupCmd = &cobra.Command{
	Use:   "lookup [product-code]",
	Short: "Resolve a product code to classification, panel, and OHT office",
	Long: `Resolves a three-letter product code against the embedded
classification table. Codes not in the table can be resolved live from
openFDA with --live.

Examples:
  regnerd lookup FRN
  regnerd lookup QKR --live
  regnerd lookup --panel CV
  regnerd lookup --panels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLookup,
}

// decisionCmd prints the substantial equivalence decision sequence
var decisionCmd = &cobra.Command{
	Use:   "decision",
	Short: "Show the substantial equivalence decision sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(titleStyle.Render("⚖️  Substantial equivalence decision sequence"))
		fmt.Println()
		for _, pt := range registry.DecisionSequence() {
			fmt.Printf("%s %s\n", headerStyle.Render(fmt.Sprintf("%d.", pt.Number)), pt.Question)
			fmt.Printf("   yes → %s   no → %s\n", pt.IfYes, pt.IfNo)
			if pt.Note != "" {
				fmt.Println(dimStyle.Render("   " + pt.Note))
			}
			fmt.Println()
		}
		return nil
	},
}

// triggersCmd lists review-team consult triggers
var triggersCmd = &cobra.Command{
	Use:   "triggers [characteristic...]",
	Short: "List consult triggers, optionally filtered by characteristic",
	Long: `Lists the device characteristics that pull specialty consults into
a review. Pass characteristic ids to filter:

  regnerd triggers software cybersecurity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		triggers := registry.Triggers()
		if len(args) > 0 {
			triggers = registry.TriggersFor(args...)
			if len(triggers) == 0 {
				return fmt.Errorf("no triggers match %v", args)
			}
		}

		fmt.Println(titleStyle.Render("🧩 Review consult triggers"))
		fmt.Println()
		for _, tr := range triggers {
			fmt.Printf("%s %s\n", headerStyle.Render("["+tr.ID+"]"), tr.Characteristic)
			fmt.Println("   consult: " + tr.Consult)
			fmt.Println(dimStyle.Render("   " + tr.Rationale))
			fmt.Println()
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupLive, "live", false, "Fall back to openFDA when the code is not in the embedded table")
	lookupCmd.Flags().StringVar(&lookupPanel, "panel", "", "Resolve a review panel code to its OHT office")
	lookupCmd.Flags().BoolVar(&lookupPanelOnly, "panels", false, "List the panel to OHT office mapping and exit")
}

func runLookup(cmd *cobra.Command, args []string) error {
	if lookupPanelOnly {
		printPanels()
		return nil
	}
	if lookupPanel != "" {
		office, err := registry.PanelOffice(lookupPanel)
		if err != nil {
			return err
		}
		fmt.Println(kv("Panel", strings.ToUpper(lookupPanel)))
		fmt.Println(kv("Review office", office.Code+" — "+office.Name))
		return nil
	}
	if len(args) == 0 {
		return errors.New("product code required (or use --panel / --panels)")
	}
	code := args[0]

	rec, err := registry.LookupProductCode(code)
	switch {
	case err == nil:
		printProductCode(rec, "embedded table")
		return nil
	case errors.Is(err, registry.ErrUnknownProductCode) && lookupLive:
		return lookupViaAPI(code)
	case errors.Is(err, registry.ErrUnknownProductCode):
		return fmt.Errorf("%w (try --live to query openFDA)", err)
	default:
		return err
	}
}

func lookupViaAPI(code string) error {
	client, store, err := newAPIClient()
	if err != nil {
		return err
	}
	defer store.Close()

	recs, _, err := client.SearchClassification(context.Background(),
		openfda.NewQuery().Search("product_code", strings.ToUpper(code)).Limit(1))
	if openfda.IsNoResults(err) || (err == nil && len(recs) == 0) {
		return fmt.Errorf("product code %q not found in the classification database", code)
	}
	if err != nil {
		return err
	}

	c := recs[0]
	printProductCode(&registry.ProductCode{
		Code:             c.ProductCode,
		DeviceName:       c.DeviceName,
		DeviceClass:      c.DeviceClass,
		RegulationNumber: c.RegulationNumber,
		ReviewPanel:      c.ReviewPanel,
	}, "openFDA")
	if c.Definition != "" {
		fmt.Println()
		fmt.Println(dimStyle.Render(c.Definition))
	}
	return nil
}

func printProductCode(rec *registry.ProductCode, source string) {
	fmt.Println(titleStyle.Render("📋 " + rec.Code + " — " + rec.DeviceName))
	fmt.Println()
	fmt.Println(kv("Device class", rec.DeviceClass))
	fmt.Println(kv("Regulation", "21 CFR "+rec.RegulationNumber))
	fmt.Println(kv("Review panel", rec.ReviewPanel))

	if office, err := rec.Office(); err == nil {
		fmt.Println(kv("Review office", office.Code+" — "+office.Name))
	} else {
		fmt.Println(warnStyle.Render("review panel has no OHT mapping"))
	}
	fmt.Println(dimStyle.Render("\nsource: " + source))
}

func printPanels() {
	fmt.Println(titleStyle.Render("🏛  Review panel → OHT office"))
	fmt.Println()

	panels := registry.Panels()
	codes := make([]string, 0, len(panels))
	for p := range panels {
		codes = append(codes, p)
	}
	sort.Strings(codes)

	for _, p := range codes {
		o := panels[p]
		fmt.Printf("  %-4s %-6s %s\n", headerStyle.Render(p), o.Code, o.Name)
	}
}
