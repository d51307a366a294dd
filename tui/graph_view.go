package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PIPELINE GRAPH"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("Generating graph...\n")
	} else {
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(strings.Join([]string{"Esc: Back", "q: Quit"}, " • ")))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewList
		m.graphDOT = ""
	}
	return m, nil
}

func graphCmd(contacts []models.Contact) tea.Cmd {
	return func() tea.Msg {
		dot, err := viz.GeneratePipelineGraph(context.Background(), contacts)
		return graphMsg{dot: dot, err: err}
	}
}
