package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/harperreed/solocrm/viz"
)

var interactionSorts = []string{store.InteractionSortDate, store.InteractionSortType, store.InteractionSortContact}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SOLO CRM"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching || m.session.State().SearchQuery != "" {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n")
	}
	s.WriteString(m.renderFilters())
	s.WriteString("\n\n")

	body := m.renderTable()
	if m.sidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sidebarStyle.Render(m.renderSidebar()))
	}
	s.WriteString(body)
	s.WriteString("\n")

	s.WriteString(m.renderStatus())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Contacts", "Interactions"}
	var rendered []string

	for i, tab := range tabs {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderFilters() string {
	state := m.session.State()
	if m.tab == TabContacts {
		tag := state.FilterTag
		if tag == "" {
			tag = "all"
		}
		return helpStyle.Render(fmt.Sprintf("sort: %s • tag: %s", state.SortBy, tag))
	}
	kind := string(m.interactionType)
	if kind == "" {
		kind = "all"
	}
	return helpStyle.Render(fmt.Sprintf("sort: %s • type: %s", m.interactionSort, kind))
}

func (m Model) visibleContacts() []models.Contact {
	return store.VisibleContacts(m.session.State())
}

func (m Model) visibleInteractions() []models.Interaction {
	return store.VisibleInteractions(m.session.State(), store.InteractionQuery{
		Type:   m.interactionType,
		SortBy: m.interactionSort,
	})
}

func (m Model) rowCount() int {
	if m.tab == TabContacts {
		return len(m.visibleContacts())
	}
	return len(m.visibleInteractions())
}

func (m Model) tableHeight() int {
	if h := m.height - 12; h > 3 {
		return h
	}
	return 3
}

func (m Model) renderTable() string {
	state := m.session.State()
	tz := m.session.Timezone()

	var columns []table.Column
	var rows []table.Row
	if m.tab == TabContacts {
		columns = []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 26},
			{Title: "Company", Width: 18},
			{Title: "Follow-up", Width: 12},
		}
		for _, c := range m.visibleContacts() {
			rows = append(rows, table.Row{c.FullName(), c.Email, c.Company, dates.FormatDisplayDate(c.FollowUpDate, tz)})
		}
		if len(rows) == 0 {
			return "No contacts yet. Press n to add one."
		}
	} else {
		columns = []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Contact", Width: 22},
			{Title: "Type", Width: 10},
			{Title: "Notes", Width: 36},
		}
		for _, i := range m.visibleInteractions() {
			rows = append(rows, table.Row{
				dates.FormatDisplayDate(i.Date, tz),
				store.ContactName(state, i.ContactID),
				string(i.Type),
				i.Notes,
			})
		}
		if len(rows) == 0 {
			return "No interactions yet. Press n to log one."
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderSidebar() string {
	stats := viz.GenerateDashboardStats(m.session.State(), m.session.Timezone(), m.now())

	var s strings.Builder
	s.WriteString("OVERVIEW\n")
	s.WriteString(fmt.Sprintf("%d contacts\n", stats.TotalContacts))
	s.WriteString(fmt.Sprintf("%d interactions\n", stats.TotalInteractions))
	s.WriteString(fmt.Sprintf("%d this month\n", stats.InteractionsThisMon))
	s.WriteString(fmt.Sprintf("%d follow-ups due\n", stats.FollowUpsDue))

	if tags := store.AllTags(m.session.State()); len(tags) > 0 {
		s.WriteString("\nTAGS\n")
		s.WriteString(strings.Join(tags, ", "))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderStatus() string {
	state := m.session.State()
	switch {
	case state.Loading:
		return "loading…\n"
	case state.Error != "":
		return errorStyle.Render("error: "+state.Error) + "\n"
	case m.statusLine != "":
		return m.statusLine + "\n"
	}
	return ""
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: Details",
		"/: Search",
		"n: New",
		"e: Edit",
		"d: Delete",
		"s: Sort",
	}
	if m.tab == TabContacts {
		help = append(help, "t: Tag")
	} else {
		help = append(help, "f: Type")
	}
	help = append(help, "g: Graph", "b: Sidebar", "r: Reload", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.Store()
	state := m.session.State()

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
		m.tab = (m.tab + 1) % tabCount
		m.selectedRow = 0
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "esc":
		if state.SearchQuery != "" {
			m.searchInput.SetValue("")
			st.Dispatch(store.SetSearchQuery{Query: ""})
			m.selectedRow = 0
		}
	case "s":
		if m.tab == TabContacts {
			st.Dispatch(store.SetSortBy{SortBy: state.SortBy.Next()})
		} else {
			m.interactionSort = nextString(interactionSorts, m.interactionSort)
		}
		m.selectedRow = 0
	case "t":
		if m.tab == TabContacts {
			tags := append([]string{""}, store.AllTags(state)...)
			st.Dispatch(store.SetFilterTag{Tag: nextString(tags, state.FilterTag)})
			m.selectedRow = 0
		}
	case "f":
		if m.tab == TabInteractions {
			types := []string{""}
			for _, t := range models.InteractionTypes {
				types = append(types, string(t))
			}
			m.interactionType = models.InteractionType(nextString(types, string(m.interactionType)))
			m.selectedRow = 0
		}
	case "n":
		if m.tab == TabContacts {
			m.openContactForm(nil)
		} else {
			m.openInteractionForm(nil, "")
		}
	case "e":
		m.editSelected()
	case "d":
		if id := m.selectedID(); id != "" {
			m.confirmDelete(m.tab, id)
		}
	case "enter":
		if m.tab == TabContacts {
			if id := m.selectedID(); id != "" {
				m.detailID = id
				m.viewMode = ViewDetail
			}
		} else {
			m.editSelected()
		}
	case "g":
		m.generateGraph()
		m.viewMode = ViewGraph
	case "b":
		m.sidebar = !m.sidebar
		if m.prefs != nil {
			if open, err := m.prefs.ToggleSidebar(true); err == nil {
				m.sidebar = open
			}
		}
	case "r":
		m.statusLine = ""
		if err := m.session.Reload(m.ctx); err == nil {
			m.statusLine = "Reloaded"
		}
	}

	return m, nil
}

func (m *Model) editSelected() {
	id := m.selectedID()
	if id == "" {
		return
	}
	state := m.session.State()
	if m.tab == TabContacts {
		if c, ok := store.FindContact(state, id); ok {
			m.openContactForm(&c)
		}
		return
	}
	if i, ok := store.FindInteraction(state, id); ok {
		m.openInteractionForm(&i, "")
	}
}

func (m Model) selectedID() string {
	if m.tab == TabContacts {
		contacts := m.visibleContacts()
		if m.selectedRow < len(contacts) {
			return contacts[m.selectedRow].ID
		}
		return ""
	}
	interactions := m.visibleInteractions()
	if m.selectedRow < len(interactions) {
		return interactions[m.selectedRow].ID
	}
	return ""
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.session.Store().Dispatch(store.SetSearchQuery{Query: ""})
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.session.State().SearchQuery {
		m.session.Store().Dispatch(store.SetSearchQuery{Query: m.searchInput.Value()})
		m.selectedRow = 0
	}
	return m, cmd
}

func nextString(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
