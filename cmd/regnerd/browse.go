package main

import (
	"fmt"

	"regnerd/internal/corpus"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// browseCmd opens the interactive corpus browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the skill corpus interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := corpus.MustLoad()
		p := tea.NewProgram(newBrowseModel(c), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type browseScreen int

const (
	listScreen browseScreen = iota
	docScreen
)

// docItem is one corpus document in the picker list.
type docItem struct {
	skill   string
	path    string
	title   string
	content string
}

func (d docItem) Title() string       { return d.title }
func (d docItem) Description() string { return d.skill + " › " + d.path }
func (d docItem) FilterValue() string { return d.title + " " + d.path }

type browseModel struct {
	screen   browseScreen
	list     list.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	current  docItem
	width    int
	height   int
	err      error
}

func newBrowseModel(c *corpus.Corpus) browseModel {
	var items []list.Item
	for _, skill := range c.List() {
		items = append(items, docItem{
			skill:   skill.Name,
			path:    "SKILL.md",
			title:   skill.Name + " (manifest)",
			content: skill.Body,
		})
		for _, p := range skill.DocumentPaths() {
			doc, _ := skill.Document(p)
			items = append(items, docItem{
				skill:   skill.Name,
				path:    p,
				title:   doc.Title,
				content: doc.Content,
			})
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "📚 Skill corpus"
	l.SetShowStatusBar(false)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(96),
	)

	return browseModel{
		screen:   listScreen,
		list:     l,
		viewport: viewport.New(0, 0),
		renderer: renderer,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.screen == docScreen {
				m.screen = listScreen
				return m, nil
			}
			if !m.list.SettingFilter() {
				return m, tea.Quit
			}
		case "esc":
			if m.screen == docScreen {
				m.screen = listScreen
				return m, nil
			}
		case "enter":
			if m.screen == listScreen {
				if item, ok := m.list.SelectedItem().(docItem); ok {
					m.current = item
					m.viewport.SetContent(m.render(item.content))
					m.viewport.GotoTop()
					m.screen = docScreen
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case listScreen:
		m.list, cmd = m.list.Update(msg)
	case docScreen:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) render(content string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			return out
		}
	}
	return content
}

func (m browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.screen {
	case docScreen:
		header := lipgloss.NewStyle().Bold(true).Render(
			m.current.skill + " › " + m.current.path)
		footer := dimStyle.Render("↑/↓ scroll · esc back · ctrl+c quit")
		return header + "\n" + m.viewport.View() + "\n" + footer
	default:
		return m.list.View() + "\n" + dimStyle.Render("enter open · / filter · q quit")
	}
}
