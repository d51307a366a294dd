package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadbook/models"
)

// formField binds one text input to a contact field.
type formField struct {
	placeholder string
	limit       int
	field       func(c *models.Contact) *string
}

var clientForm = []formField{
	{"Name", 100, func(c *models.Contact) *string { return &c.Name }},
	{"Phone", 30, func(c *models.Contact) *string { return &c.Phone }},
	{"Email", 100, func(c *models.Contact) *string { return &c.Email }},
	{"City", 60, func(c *models.Contact) *string { return &c.City }},
	{"Location", 100, func(c *models.Contact) *string { return &c.Location }},
	{"Project", 100, func(c *models.Contact) *string { return &c.ProjectName }},
	{"Property type", 40, func(c *models.Contact) *string { return &c.PropertyType }},
	{"Budget range", 40, func(c *models.Contact) *string { return &c.BudgetRange }},
	{"Follow-up date (YYYY-MM-DD)", 20, func(c *models.Contact) *string { return &c.FollowUpDate }},
	{"Notes", 500, func(c *models.Contact) *string { return &c.Notes }},
}

// statusField is the index of the status input, placed after the form fields.
var statusField = len(clientForm)

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.selectedID == "" {
		s.WriteString(titleStyle.Render("NEW CLIENT"))
	} else {
		s.WriteString(titleStyle.Render("EDIT CLIENT"))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selectedID == "" {
			m.viewMode = ViewList
		} else {
			m.viewMode = ViewDetail
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		saved, err := m.saveClient()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.message = "Saved " + saved.Name
		m.selectedID = saved.ID
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs() {
	var existing models.Contact
	if m.selectedID != "" {
		existing, _ = m.session.Contact(m.selectedID)
	}

	inputs := make([]textinput.Model, len(clientForm)+1)
	for i, f := range clientForm {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = f.placeholder
		inputs[i].CharLimit = f.limit
		inputs[i].SetValue(*f.field(&existing))
	}

	inputs[statusField] = textinput.New()
	inputs[statusField].Placeholder = "Status (default: " + string(models.StatusNewLead) + ")"
	inputs[statusField].CharLimit = 30
	inputs[statusField].SetValue(string(existing.Status))

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// saveClient builds a contact from the form and stores it. Editing starts
// from the stored client so fields without an input are kept.
func (m Model) saveClient() (models.Contact, error) {
	var c models.Contact
	if m.selectedID != "" {
		existing, ok := m.session.Contact(m.selectedID)
		if !ok {
			return models.Contact{}, fmt.Errorf("client %s not found", m.selectedID)
		}
		c = existing
	}

	for i, f := range clientForm {
		*f.field(&c) = strings.TrimSpace(m.formInputs[i].Value())
	}
	if c.Name == "" {
		return models.Contact{}, fmt.Errorf("name is required")
	}

	label := strings.TrimSpace(m.formInputs[statusField].Value())
	if label != "" {
		status, ok := models.ParseLeadStatus(label)
		if !ok {
			return models.Contact{}, fmt.Errorf("unknown status %q", label)
		}
		c.Status = status
	}

	return m.session.Save(context.Background(), c), nil
}
