// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Removes a client from the session list after a confirmation dialog
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	c, ok := m.session.Contact(m.selectedID)
	if !ok {
		return fmt.Sprintf("Error: client %s not found", m.selectedID)
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠"),
		"",
		"Are you sure you want to delete this client?",
		fmt.Sprintf("\nCLIENT: %s\n", c.Name),
		"\nThis action cannot be undone!",
		"",
		buttons,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBoxStyle.Render(content))
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name := m.selectedID
		if c, ok := m.session.Contact(m.selectedID); ok {
			name = c.Name
		}
		if err := m.session.Delete(context.Background(), m.selectedID); err != nil {
			m.err = err
			m.message = ""
		} else {
			m.err = nil
			m.message = "Deleted " + name
			m.selectedID = ""
			m.selectedRow = 0
		}
		m.viewMode = ViewList
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
