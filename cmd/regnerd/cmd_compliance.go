package main

import (
	"context"
	"fmt"
	"time"

	"regnerd/internal/dashboard"

	"github.com/spf13/cobra"
)

var (
	complianceFirm  string
	complianceState string
	complianceRows  int
)

// complianceCmd queries the FDA Data Dashboard compliance endpoints
var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Query FDA Data Dashboard compliance data",
	Long: `Queries the FDA Data Dashboard API for device compliance data.
Requires Authorization-User and Authorization-Key credentials in the
config file or FDA_DASHBOARD_AUTH_USER / FDA_DASHBOARD_AUTH_KEY.`,
}

var complianceActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List compliance actions (warning letters, injunctions, seizures)",
	RunE:  runComplianceActions,
}

var complianceInspectionsCmd = &cobra.Command{
	Use:   "citations",
	Short: "List inspection citations",
	RunE:  runComplianceCitations,
}

func init() {
	for _, c := range []*cobra.Command{complianceActionsCmd, complianceInspectionsCmd} {
		c.Flags().StringVar(&complianceFirm, "firm", "", "Filter by firm legal name")
		c.Flags().StringVar(&complianceState, "state", "", "Filter by US state code")
		c.Flags().IntVar(&complianceRows, "rows", 25, "Rows to return")
	}
	complianceCmd.AddCommand(complianceActionsCmd)
	complianceCmd.AddCommand(complianceInspectionsCmd)
}

func newDashboardClient() *dashboard.Client {
	opts := []dashboard.Option{
		dashboard.WithCredentials(cfg.Dashboard.AuthUser, cfg.Dashboard.AuthKey),
	}
	if cfg.Dashboard.BaseURL != "" {
		opts = append(opts, dashboard.WithBaseURL(cfg.Dashboard.BaseURL))
	}
	if d, err := time.ParseDuration(cfg.Dashboard.Timeout); err == nil && d > 0 {
		opts = append(opts, dashboard.WithTimeout(d))
	}
	return dashboard.NewClient(opts...)
}

func complianceFilter(sortField string) *dashboard.Filter {
	f := dashboard.NewFilter().Page(1, complianceRows).SortBy(sortField, true)
	if complianceFirm != "" {
		f.Where("LegalName", complianceFirm)
	}
	if complianceState != "" {
		f.Where("State", complianceState)
	}
	return f
}

func runComplianceActions(cmd *cobra.Command, args []string) error {
	recs, total, err := newDashboardClient().ComplianceActions(
		context.Background(), complianceFilter("ActionTakenDate"))
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("⚠️  Compliance actions — %d of %d", len(recs), total)))
	fmt.Println()
	for _, r := range recs {
		fmt.Printf("%-12s %-18s %-3s %s\n",
			r.ActionTakenDate,
			truncateStr(r.ActionType, 18),
			r.State,
			truncateStr(r.FirmName, 45))
	}
	return nil
}

func runComplianceCitations(cmd *cobra.Command, args []string) error {
	recs, total, err := newDashboardClient().InspectionsCitations(
		context.Background(), complianceFilter("InspectionEndDate"))
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("📝 Inspection citations — %d of %d", len(recs), total)))
	fmt.Println()
	for _, r := range recs {
		fmt.Printf("%-12s %-16s %s\n", r.InspectionEndDate,
			truncateStr(r.ActReference, 16), truncateStr(r.FirmName, 40))
		if r.ShortDescription != "" {
			fmt.Println(dimStyle.Render("             " + truncateStr(r.ShortDescription, 80)))
		}
	}
	return nil
}
