// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Renders the session Store and turns key presses into session operations
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewConfirmDelete
)

// Tab selects which collection the list shows
type Tab int

const (
	TabContacts Tab = iota
	TabInteractions
	tabCount
)

// SidebarPrefs persists whether the summary sidebar is shown.
type SidebarPrefs interface {
	SidebarOpen(def bool) bool
	ToggleSidebar(def bool) (bool, error)
}

// Model is the main bubbletea model. Collections, search, tag filter, sort key
// and form visibility all live in the session's Store.
type Model struct {
	ctx     context.Context
	session *crm.Session
	prefs   SidebarPrefs
	now     func() time.Time

	viewMode    ViewMode
	tab         Tab
	selectedRow int

	searching   bool
	searchInput textinput.Model

	// Interaction list narrowing is local to the TUI.
	interactionSort string
	interactionType models.InteractionType

	form       *form
	deleteID   string
	deleteKind Tab
	returnTo   ViewMode
	detailID   string
	graphDOT   string
	sidebar    bool
	statusLine string

	width  int
	height int
}

// NewModel creates a new TUI model over a signed-in session. prefs may be nil.
func NewModel(ctx context.Context, session *crm.Session, prefs SidebarPrefs) Model {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "
	search.SetValue(session.State().SearchQuery)

	m := Model{
		ctx:             ctx,
		session:         session,
		prefs:           prefs,
		now:             time.Now,
		viewMode:        ViewList,
		tab:             TabContacts,
		searchInput:     search,
		interactionSort: store.InteractionSortDate,
		sidebar:         true,
		width:           100,
		height:          30,
	}
	if prefs != nil {
		m.sidebar = prefs.SidebarOpen(true)
	}
	return m
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, session *crm.Session, prefs SidebarPrefs) error {
	p := tea.NewProgram(NewModel(ctx, session, prefs), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	state := m.session.State()
	if m.form != nil && (state.IsContactModalOpen || state.IsInteractionModalOpen) {
		return m.renderFormView()
	}
	switch m.viewMode {
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return m.renderListView()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	state := m.session.State()
	if m.form != nil && (state.IsContactModalOpen || state.IsInteractionModalOpen) {
		return m.handleFormKeys(msg)
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

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(2).
			Width(30)
)
