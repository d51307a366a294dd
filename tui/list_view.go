package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
	"github.com/harperreed/leadbook/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEADBOOK"))
	s.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		s.WriteString(banner)
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching || m.searchQuery != "" {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n\n")
	}

	switch m.tab {
	case TabClients:
		s.WriteString(m.renderClientsTable())
	case TabFollowups:
		s.WriteString(m.renderFollowupsTable())
	case TabSource:
		s.WriteString(m.renderSourceView())
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	} else if m.message != "" {
		s.WriteString(messageStyle.Render(m.message))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

// renderBanner shows the load outcome when it is anything but a clean list.
func (m Model) renderBanner() string {
	if m.loading {
		return messageStyle.Render("⟳ Loading clients...")
	}
	if m.result != nil && m.result.State == sync.StateDegraded {
		return bannerStyle.Render("⚠  " + m.result.Diagnostic)
	}
	return ""
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// visibleClients is the clients tab contents in display order.
func (m Model) visibleClients() []models.Contact {
	return m.session.Search(m.searchQuery, "")
}

func (m Model) renderClientsTable() string {
	clients := m.visibleClients()
	if len(clients) == 0 {
		if m.searchQuery != "" {
			return messageStyle.Render("No clients match your search.")
		}
		return messageStyle.Render("No clients yet. Press n to add one.")
	}

	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Status", Width: 14},
		{Title: "City", Width: 16},
		{Title: "Phone", Width: 16},
		{Title: "Property", Width: 14},
	}

	var rows []table.Row
	for _, c := range clients {
		rows = append(rows, table.Row{c.Name, string(c.Status), c.City, c.Phone, c.PropertyType})
	}

	return m.newTable(columns, rows).View()
}

type followupRow struct {
	contact models.Contact
	date    time.Time
}

// scheduledFollowups returns clients with a parseable follow-up date, soonest first.
func (m Model) scheduledFollowups() []followupRow {
	var items []followupRow
	for _, c := range m.session.Contacts() {
		if date, ok := viz.ParseFollowUpDate(c.FollowUpDate); ok {
			items = append(items, followupRow{contact: c, date: date})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].date.Before(items[j].date) })
	return items
}

func (m Model) renderFollowupsTable() string {
	items := m.scheduledFollowups()
	if len(items) == 0 {
		return messageStyle.Render("No follow-ups scheduled")
	}

	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Name", Width: 22},
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 8},
		{Title: "Type", Width: 10},
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var rows []table.Row
	for _, item := range items {
		indicator := "🟢"
		if item.date.Before(today) {
			indicator = "🔴"
		} else if item.date.Equal(today) {
			indicator = "🟡"
		}
		rows = append(rows, table.Row{
			indicator,
			item.contact.Name,
			item.date.Format("2006-01-02"),
			item.contact.FollowUpTime,
			item.contact.FollowUpType,
		})
	}

	return m.newTable(columns, rows).View()
}

func (m Model) newTable(columns []table.Column, rows []table.Row) table.Model {
	height := m.height - 12
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"n: New",
		"r: Reload",
		"g: Graph",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabClients:
		return len(m.visibleClients())
	case TabFollowups:
		return len(m.scheduledFollowups())
	}
	return 0
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewDetail
			m.err = nil
			m.message = ""
		}
	case "/":
		m.tab = TabClients
		m.searching = true
		m.searchInput.Focus()
	case "esc":
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.selectedRow = 0
	case "n":
		m.selectedID = ""
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, loadCmd(m.session, true)
	case "g":
		m.graphDOT = ""
		m.viewMode = ViewGraph
		return m, graphCmd(m.session.Contacts())
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.searchInput.Blur()
		if msg.String() == "esc" {
			m.searchInput.SetValue("")
		}
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = strings.TrimSpace(m.searchInput.Value())
	m.selectedRow = 0
	return m, cmd
}

func (m Model) getSelectedID() string {
	switch m.tab {
	case TabClients:
		clients := m.visibleClients()
		if m.selectedRow < len(clients) {
			return clients[m.selectedRow].ID
		}
	case TabFollowups:
		items := m.scheduledFollowups()
		if m.selectedRow < len(items) {
			return items[m.selectedRow].contact.ID
		}
	}
	return ""
}

// renderSourceView reports where the list came from and why.
func (m Model) renderSourceView() string {
	if m.result == nil {
		return messageStyle.Render("Not loaded yet.")
	}

	var s strings.Builder
	state := m.result.State.String()
	if m.result.State == sync.StateDegraded {
		state = errorStyle.Render("✗ " + state)
	} else {
		state = "✓ " + state
	}
	s.WriteString(fmt.Sprintf("State:   %s\n", state))

	source := m.result.Source
	if source == "" {
		source = "none"
	}
	s.WriteString(fmt.Sprintf("Source:  %s\n", source))
	s.WriteString(fmt.Sprintf("Clients: %d\n", len(m.session.Contacts())))

	if len(m.result.Trace) > 0 {
		s.WriteString("\n")
		for _, line := range m.result.Trace {
			s.WriteString(messageStyle.Render("  • " + line))
			s.WriteString("\n")
		}
	}
	return s.String()
}
