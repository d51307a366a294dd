// ABOUTME: Tests for the TUI model
// ABOUTME: Drives Update with key messages against an in-memory session
package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
)

type gridSource struct {
	grid sync.Grid
	err  error
}

func (g gridSource) ReadGrid(ctx context.Context) (sync.Grid, error) {
	return g.grid, g.err
}

func newSession(t *testing.T, src gridSource) *crm.Session {
	t.Helper()
	s := crm.NewSessionWithOptions(config.DefaultConfig(), nil, crm.Options{Primary: src})
	t.Cleanup(s.Close)
	return s
}

func sampleGrid() gridSource {
	return gridSource{grid: sync.Grid{
		{"Name", "City", "Status", "Follow Up Date"},
		{"Robert Fox", "New York", "Hot", "2099-01-02"},
		{"Jane Cooper", "Los Angeles", "Viewing", ""},
	}}
}

// loadedModel returns a model whose initial load has completed.
func loadedModel(t *testing.T, src gridSource) Model {
	t.Helper()
	m := NewModel(newSession(t, src))
	require.True(t, m.loading)

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, key := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(key))
		m = next.(Model)
	}
	return m, cmd
}

func TestListView_ShowsClients(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	require.NotNil(t, m.result)
	assert.Equal(t, sync.StateReady, m.result.State)

	out := m.View()
	assert.Contains(t, out, "LEADBOOK")
	assert.Contains(t, out, "Robert Fox")
	assert.Contains(t, out, "Jane Cooper")
	assert.NotContains(t, out, sync.DegradedMessage)
}

func TestListView_DegradedBanner(t *testing.T) {
	m := loadedModel(t, gridSource{err: errors.New("offline")})

	assert.Equal(t, sync.StateDegraded, m.result.State)
	out := m.View()
	assert.Contains(t, out, sync.DegradedMessage)
	assert.Contains(t, out, "No clients yet")
}

func TestInit_SkipsLoadWhenSettled(t *testing.T) {
	s := newSession(t, sampleGrid())
	s.Load(context.Background())

	m := NewModel(s)
	assert.False(t, m.loading)
	assert.Nil(t, m.Init())
}

func TestDetailView_AdvanceStatus(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "Robert Fox")

	m, _ = press(m, "s")
	c, ok := m.session.Contact(m.selectedID)
	require.True(t, ok)
	assert.Equal(t, models.StatusFollowUp, c.Status)
	assert.Contains(t, m.View(), "Moved Robert Fox to Follow-up")

	m, _ = press(m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestDeleteFlow(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "down", "enter", "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Jane Cooper")

	m, _ = press(m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)

	m, _ = press(m, "d", "y")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, m.session.Contacts(), 1)
	assert.Contains(t, m.View(), "Deleted Jane Cooper")
}

func TestEditView_NewClient(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "n")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Contains(t, m.View(), "NEW CLIENT")

	// q is typed into the form rather than quitting.
	m, _ = press(m, "enter")
	assert.EqualError(t, m.err, "name is required")

	m, _ = press(m, "Ann q", "tab", "+1 000")
	m.focusIndex = statusField
	m.updateFormFocus()
	m, _ = press(m, "warm prospect", "enter")

	require.NoError(t, m.err)
	require.Equal(t, ViewDetail, m.viewMode)
	c, ok := m.session.Contact(m.selectedID)
	require.True(t, ok)
	assert.Equal(t, "Ann q", c.Name)
	assert.Equal(t, "+1 000", c.Phone)
	assert.Equal(t, models.StatusWarmProspect, c.Status)
	assert.Equal(t, c.ID, m.session.Contacts()[0].ID, "new clients are prepended")
}

func TestEditView_RejectsUnknownStatus(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "enter", "e")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "Robert Fox", m.formInputs[0].Value())

	m.focusIndex = statusField
	m.updateFormFocus()
	m.formInputs[statusField].SetValue("Sold")
	m, _ = press(m, "enter")
	assert.EqualError(t, m.err, `unknown status "Sold"`)

	m, _ = press(m, "esc")
	assert.Equal(t, ViewDetail, m.viewMode)
}

func TestSearch(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "/", "jane", "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "jane", m.searchQuery)
	require.Len(t, m.visibleClients(), 1)
	assert.NotContains(t, m.View(), "Robert Fox")

	m, _ = press(m, "esc")
	assert.Len(t, m.visibleClients(), 2)
}

func TestTabs(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, _ = press(m, "tab")
	assert.Equal(t, TabFollowups, m.tab)
	out := m.View()
	assert.Contains(t, out, "Robert Fox")
	assert.Contains(t, out, "2099-01-02")
	assert.NotContains(t, out, "Jane Cooper")

	m, _ = press(m, "tab")
	assert.Equal(t, TabSource, m.tab)
	out = m.View()
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, models.ServiceSheets)

	m, _ = press(m, "tab")
	assert.Equal(t, TabClients, m.tab)
}

func TestReload(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	m, cmd := press(m, "r")
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Loading")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.loading)
	assert.Len(t, m.session.Contacts(), 2)
}

func TestQuit(t *testing.T) {
	m := loadedModel(t, sampleGrid())

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
