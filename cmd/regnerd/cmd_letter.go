package main

import (
	"fmt"
	"os"
	"strings"

	"regnerd/internal/letter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	letterTemplate string
	letterInput    string
	letterOutput   string
)

// letterCmd groups the deficiency letter commands
var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Draft deficiency correspondence from a YAML description",
}

var letterDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Render a deficiency letter",
	Long: `Renders an Additional Information request or NSE letter from a
YAML file:

  submission_id: K241234
  device_name: Acme Infusion Pump
  applicant: Acme Medical, Inc.
  contact: Jordan Lee
  deficiencies:
    - section: Biocompatibility
      citation: ISO 10993-1
      description: The submission does not identify patient contact duration.
      request: Provide a biological evaluation plan.

Example:
  regnerd letter draft --template ai --in letter.yaml -o K241234-ai.txt`,
	RunE: runLetterDraft,
}

var letterTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available letter templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(titleStyle.Render("✉️  Letter templates"))
		for _, name := range letter.Templates() {
			desc := map[string]string{
				"ai":  "Additional Information request (clock stops, 180-day response window)",
				"nse": "Not Substantially Equivalent determination",
			}[name]
			fmt.Printf("  %-6s %s\n", headerStyle.Render(name), desc)
		}
		return nil
	},
}

func init() {
	letterDraftCmd.Flags().StringVarP(&letterTemplate, "template", "t", "ai", "Template name (see 'letter templates')")
	letterDraftCmd.Flags().StringVar(&letterInput, "in", "", "YAML file describing the letter (required)")
	letterDraftCmd.Flags().StringVarP(&letterOutput, "out", "o", "", "Write the letter to a file instead of stdout")
	_ = letterDraftCmd.MarkFlagRequired("in")

	letterCmd.AddCommand(letterDraftCmd)
	letterCmd.AddCommand(letterTemplatesCmd)
}

func runLetterDraft(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(letterInput)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", letterInput, err)
	}

	var l letter.Letter
	if err := yaml.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("failed to parse %s: %w", letterInput, err)
	}

	out, err := letter.Render(letterTemplate, &l)
	if err != nil {
		return err
	}

	if letterOutput == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(letterOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", letterOutput, err)
	}
	fmt.Printf("✅ wrote %s letter for %s to %s\n",
		strings.ToUpper(letterTemplate), l.SubmissionID, letterOutput)
	return nil
}
