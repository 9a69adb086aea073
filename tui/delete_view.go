// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Handles deletion of contacts and interactions with a confirmation dialog
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/solocrm/store"
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

// confirmDelete asks before deleting id from the given collection.
func (m *Model) confirmDelete(kind Tab, id string) {
	m.deleteKind = kind
	m.deleteID = id
	m.returnTo = m.viewMode
	m.viewMode = ViewConfirmDelete
}

func (m Model) renderConfirmDeleteView() string {
	state := m.session.State()

	var entityType, entityName string
	if m.deleteKind == TabContacts {
		entityType = "contact"
		entityName = store.ContactName(state, m.deleteID)
	} else {
		entityType = "interaction"
		i, ok := store.FindInteraction(state, m.deleteID)
		if !ok {
			return fmt.Sprintf("Error: interaction %s not found", m.deleteID)
		}
		entityName = fmt.Sprintf("%s with %s", i.Type, store.ContactName(state, i.ContactID))
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), entityName)
	warning := "\nThis action cannot be undone!"
	if m.deleteKind == TabContacts {
		warning = "\nInteractions with this contact are kept.\nThis action cannot be undone!"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var err error
		if m.deleteKind == TabContacts {
			err = m.session.DeleteContact(m.ctx, m.deleteID)
		} else {
			err = m.session.DeleteInteraction(m.ctx, m.deleteID)
		}
		if err != nil {
			m.statusLine = ""
			m.viewMode = m.returnTo
			return m, nil
		}
		m.statusLine = "Successfully deleted"
		if m.deleteKind == TabContacts && m.detailID == m.deleteID {
			m.detailID = ""
			m.viewMode = ViewList
		} else {
			m.viewMode = m.returnTo
		}
		m.deleteID = ""
		if m.selectedRow >= m.rowCount() && m.selectedRow > 0 {
			m.selectedRow--
		}
	case "n", "N", "esc":
		m.viewMode = m.returnTo
	}

	return m, nil
}
