// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides an interactive full-screen client list over one session
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/sync"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab is a list-view tab.
type Tab int

const (
	TabClients Tab = iota
	TabFollowups
	TabSource
)

var tabNames = []string{"Clients", "Follow-ups", "Source"}

// loadedMsg carries a settled load back into Update.
type loadedMsg struct {
	result sync.Result
}

// graphMsg carries rendered DOT source.
type graphMsg struct {
	dot string
	err error
}

// Model is the main bubbletea model
type Model struct {
	session  *crm.Session
	viewMode ViewMode
	tab      Tab

	loading bool
	result  *sync.Result

	// List view state
	selectedRow int
	searchQuery string
	searching   bool
	searchInput textinput.Model

	// Detail view state
	selectedID string

	// Edit view state
	formInputs []textinput.Model
	focusIndex int

	graphDOT string

	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model
func NewModel(session *crm.Session) Model {
	search := textinput.New()
	search.Placeholder = "Search name, phone, email, city"
	search.CharLimit = 100

	return Model{
		session:     session,
		viewMode:    ViewList,
		tab:         TabClients,
		loading:     session.Result() == nil,
		result:      session.Result(),
		searchInput: search,
		width:       80,
		height:      24,
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(session *crm.Session) error {
	_, err := tea.NewProgram(NewModel(session), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return loadCmd(m.session, false)
}

func loadCmd(session *crm.Session, reload bool) tea.Cmd {
	return func() tea.Msg {
		if reload {
			return loadedMsg{result: session.Reload(context.Background())}
		}
		return loadedMsg{result: session.Load(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		res := msg.result
		m.loading = false
		m.result = &res
		m.selectedRow = 0
		m.message = ""
		return m, nil
	case graphMsg:
		if msg.err != nil {
			m.err = msg.err
			m.viewMode = ViewList
			return m, nil
		}
		m.graphDOT = msg.dot
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns every other key.
	if m.viewMode == ViewEdit {
		return m.handleEditKeys(msg)
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("9")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
