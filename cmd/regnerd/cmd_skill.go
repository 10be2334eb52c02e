package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"regnerd/internal/corpus"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	skillTarget string
	skillWatch  string
	skillPlain  bool
)

// skillCmd groups the skill corpus commands
var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse, search, and install the embedded skill corpus",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded skills and their reference documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := corpus.MustLoad()
		fmt.Println(titleStyle.Render("📚 Embedded skills"))
		fmt.Println()
		for _, s := range c.List() {
			fmt.Printf("%s v%s\n", headerStyle.Render(s.Name), s.Version)
			fmt.Println("  " + s.Description)
			for _, p := range s.DocumentPaths() {
				doc, _ := s.Document(p)
				fmt.Printf("  %s %s\n", dimStyle.Render("-"), p+" — "+doc.Title)
			}
			fmt.Println()
		}
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show [skill] [reference]",
	Short: "Render a skill manifest or one of its reference documents",
	Long: `Renders SKILL.md, or a reference document when a second argument
is given:

  regnerd skill show fda-510k-review
  regnerd skill show fda-510k-review references/decision-tree.md`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSkillShow,
}

var skillSearchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Keyword search across the skill corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := corpus.MustLoad()
		results := c.Search(strings.Join(args, " "), 10)
		if len(results) == 0 {
			fmt.Println(dimStyle.Render("No sections matched."))
			return nil
		}

		fmt.Println(titleStyle.Render("🔍 Corpus search"))
		fmt.Println()
		for _, r := range results {
			fmt.Printf("%s %s › %s\n",
				headerStyle.Render(fmt.Sprintf("%5.1f", r.Score)), r.Document, r.Section)
			if r.Snippet != "" {
				fmt.Println(dimStyle.Render("      " + r.Snippet))
			}
		}
		return nil
	},
}

var skillInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the skill corpus into an agent home",
	Long: `Copies the embedded skill packs into the target agent's skills
directory under your home:

  claude → ~/.claude/skills
  codex  → ~/.codex/skills
  agent  → ~/.agent/skills

With --watch, a local skills source directory is mirrored into the
install directory on every change (for skill authoring).`,
	RunE: runSkillInstall,
}

func init() {
	skillInstallCmd.Flags().StringVar(&skillTarget, "target", "", "Install target: claude, codex, or agent (default: from config)")
	skillInstallCmd.Flags().StringVar(&skillWatch, "watch", "", "Watch a local skills directory and mirror changes")
	skillShowCmd.Flags().BoolVar(&skillPlain, "plain", false, "Print raw markdown without terminal rendering")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	skillCmd.AddCommand(skillSearchCmd)
	skillCmd.AddCommand(skillInstallCmd)
}

func runSkillShow(cmd *cobra.Command, args []string) error {
	c := corpus.MustLoad()
	skill, ok := c.Get(args[0])
	if !ok {
		var names []string
		for _, s := range c.List() {
			names = append(names, s.Name)
		}
		return fmt.Errorf("unknown skill %q (available: %s)", args[0], strings.Join(names, ", "))
	}

	content := skill.Body
	if len(args) == 2 {
		doc, ok := skill.Document(args[1])
		if !ok {
			return fmt.Errorf("unknown reference %q (see 'regnerd skill list')", args[1])
		}
		content = doc.Content
	}

	return renderMarkdown(content)
}

// renderMarkdown pretty-prints with glamour, falling back to plain text
// when rendering fails or --plain is set.
func renderMarkdown(content string) error {
	if !skillPlain {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := r.Render(content); err == nil {
				fmt.Print(out)
				return nil
			}
		}
	}
	fmt.Println(content)
	return nil
}

func runSkillInstall(cmd *cobra.Command, args []string) error {
	target := skillTarget
	if target == "" {
		target = cfg.Install.DefaultTarget
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot resolve home directory: %w", err)
	}

	n, err := corpus.Install(target, home)
	if err != nil {
		return err
	}
	dir, _ := corpus.InstallDir(target, home)
	fmt.Printf("✅ installed %d file(s) to %s\n", n, dir)

	if skillWatch == "" {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println(dimStyle.Render("watching " + skillWatch + " (ctrl-c to stop)"))
	if err := corpus.Watch(ctx, skillWatch, target, home); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
