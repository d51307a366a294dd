package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CLIENT"))
	s.WriteString("\n\n")

	c, ok := m.session.Contact(m.selectedID)
	if !ok {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Client %s not found", m.selectedID)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("Esc: Back"))
		return s.String()
	}

	s.WriteString(m.renderField("Name", c.Name))
	s.WriteString(m.renderField("Status", string(c.Status)))
	s.WriteString(m.renderField("Phone", c.Phone))
	s.WriteString(m.renderField("Email", c.Email))
	s.WriteString(m.renderField("Profession", c.Profession))
	s.WriteString(m.renderField("City", c.City))
	s.WriteString(m.renderField("Location", c.Location))
	s.WriteString(m.renderField("Project", c.ProjectName))
	s.WriteString(m.renderField("Property", c.PropertyType))
	s.WriteString(m.renderField("Budget", c.BudgetRange))
	if c.FollowUpDate != "" {
		s.WriteString(m.renderField("Follow-up", strings.TrimSpace(fmt.Sprintf("%s %s %s", c.FollowUpDate, c.FollowUpTime, c.FollowUpType))))
	}
	s.WriteString(m.renderField("Notes", c.Notes))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		s.WriteString("\n")
		s.WriteString(messageStyle.Render(m.message))
	}
	s.WriteString("\n")

	s.WriteString(m.renderDetailHelp(string(c.Status.Next())))

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp(next string) string {
	help := []string{
		"Esc: Back",
		"e: Edit",
		"s: Move to " + next,
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.err = nil
		m.message = ""
	case "e":
		if _, ok := m.session.Contact(m.selectedID); ok {
			m.initFormInputs()
			m.viewMode = ViewEdit
		}
	case "s":
		c, ok := m.session.Contact(m.selectedID)
		if !ok {
			return m, nil
		}
		updated, err := m.session.UpdateStatus(context.Background(), c.ID, c.Status.Next())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Moved %s to %s", updated.Name, updated.Status)
	case "d":
		if _, ok := m.session.Contact(m.selectedID); ok {
			m.viewMode = ViewConfirmDelete
		}
	}

	return m, nil
}
