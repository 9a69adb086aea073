package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(14)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder
	state := m.session.State()

	contact, ok := store.FindContact(state, m.detailID)
	if !ok {
		return "Contact not found. Press Esc to go back."
	}

	s.WriteString(titleStyle.Render(contact.FullName()))
	s.WriteString("\n\n")
	s.WriteString(m.renderContactFields(contact))
	s.WriteString("\n")

	tz := m.session.Timezone()
	interactions := store.ContactInteractions(state, contact.ID)
	s.WriteString(fieldLabelStyle.Render(fmt.Sprintf("Interactions (%d)", len(interactions))))
	s.WriteString("\n")
	if len(interactions) == 0 {
		s.WriteString("  none yet\n")
	}
	for _, i := range interactions {
		line := fmt.Sprintf("  %s  %-9s %s", dates.FormatDisplayDate(i.Date, tz), i.Type, i.Notes)
		if i.FollowUpDate != "" {
			line += fmt.Sprintf(" (follow up %s)", dates.FormatDisplayDate(i.FollowUpDate, tz))
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func (m Model) renderContactFields(c models.Contact) string {
	tz := m.session.Timezone()
	fields := []struct{ label, value string }{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Company", c.Company},
		{"Position", c.Position},
		{"Tags", models.FormatTags(c.Tags)},
		{"Follow-up", dates.FormatDisplayDate(c.FollowUpDate, tz)},
		{"Notes", c.Notes},
		{"Added", dates.FormatDisplayDateTime(c.CreatedAt, tz, "")},
	}

	var s strings.Builder
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		s.WriteString(fieldLabelStyle.Render(f.label))
		s.WriteString(fieldValueStyle.Render(f.value))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"e: Edit",
		"i: Log interaction",
		"d: Delete",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.detailID = ""
	case "e":
		if c, ok := store.FindContact(m.session.State(), m.detailID); ok {
			m.openContactForm(&c)
		}
	case "i":
		m.openInteractionForm(nil, m.detailID)
	case "d":
		m.confirmDelete(TabContacts, m.detailID)
	}

	return m, nil
}
