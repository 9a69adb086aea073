// ABOUTME: Create and edit forms for contacts and interactions
// ABOUTME: Forms open and close through the Store's modal actions; validation errors show inline
package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

type option struct {
	label string
	value string
}

// formField is either free text or, when options is set, a choice cycled with ←/→.
type formField struct {
	label   string
	input   textinput.Model
	options []option
	choice  int
}

func (f formField) value() string {
	if f.options != nil {
		return f.options[f.choice].value
	}
	return strings.TrimSpace(f.input.Value())
}

type form struct {
	kind        Tab
	contact     models.Contact
	interaction models.Interaction
	editing     bool
	fields      []formField
	focus       int
	err         string
}

const (
	contactFirstName = iota
	contactLastName
	contactEmail
	contactPhone
	contactCompany
	contactPosition
	contactTags
	contactFollowUp
	contactNotes
)

const (
	interactionContact = iota
	interactionType
	interactionDate
	interactionNotes
	interactionFollowUp
)

func textField(label, value string, limit int) formField {
	in := textinput.New()
	in.Placeholder = label
	in.CharLimit = limit
	in.SetValue(value)
	return formField{label: label, input: in}
}

func (f *form) setFocus(i int) {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	if f.fields[f.focus].options == nil {
		f.fields[f.focus].input.Focus()
	}
}

// openContactForm opens the contact modal, editing c when it is non-nil.
func (m *Model) openContactForm(c *models.Contact) {
	state := m.session.Store().Dispatch(store.OpenContactModal{Contact: c})

	f := &form{kind: TabContacts}
	if state.SelectedContact != nil {
		f.contact = *state.SelectedContact
		f.editing = true
	}
	c2 := f.contact
	f.fields = []formField{
		textField("First name", c2.FirstName, 100),
		textField("Last name", c2.LastName, 100),
		textField("Email", c2.Email, 100),
		textField("Phone", c2.Phone, 30),
		textField("Company", c2.Company, 100),
		textField("Position", c2.Position, 100),
		textField("Tags (comma separated)", models.FormatTags(c2.Tags), 200),
		textField("Follow-up date (YYYY-MM-DD)", dates.FormatForDateInput(c2.FollowUpDate), 10),
		textField("Notes", c2.Notes, 1000),
	}
	f.setFocus(0)
	m.form = f
}

// openInteractionForm opens the interaction modal. A new interaction defaults
// to an email logged today, preselecting contactID when given.
func (m *Model) openInteractionForm(i *models.Interaction, contactID string) {
	state := m.session.Store().Dispatch(store.OpenInteractionModal{Interaction: i})

	f := &form{kind: TabInteractions}
	if state.SelectedInteraction != nil {
		f.interaction = *state.SelectedInteraction
		f.editing = true
	} else {
		f.interaction = models.Interaction{
			ContactID: contactID,
			Type:      models.InteractionEmail,
			Date:      dates.Today(m.session.Timezone(), m.now()),
		}
	}
	in := f.interaction

	byName := store.Reduce(state, store.SetSearchQuery{})
	byName = store.Reduce(byName, store.SetFilterTag{})
	byName = store.Reduce(byName, store.SetSortBy{SortBy: models.SortByName})
	contactField := formField{label: "Contact", options: []option{{label: "Select a contact", value: ""}}}
	for _, c := range store.VisibleContacts(byName) {
		contactField.options = append(contactField.options, option{label: c.FullName(), value: c.ID})
		if c.ID == in.ContactID {
			contactField.choice = len(contactField.options) - 1
		}
	}

	typeField := formField{label: "Type"}
	for _, t := range models.InteractionTypes {
		typeField.options = append(typeField.options, option{label: string(t), value: string(t)})
		if t == in.Type {
			typeField.choice = len(typeField.options) - 1
		}
	}

	f.fields = []formField{
		contactField,
		typeField,
		textField("Date (YYYY-MM-DD)", dates.FormatForDateInput(in.Date), 10),
		textField("Notes", in.Notes, 1000),
		textField("Follow-up date (YYYY-MM-DD)", dates.FormatForDateInput(in.FollowUpDate), 10),
	}
	f.setFocus(0)
	m.form = f
}

func (m *Model) closeForm() {
	if m.form == nil {
		return
	}
	if m.form.kind == TabContacts {
		m.session.Store().Dispatch(store.CloseContactModal{})
	} else {
		m.session.Store().Dispatch(store.CloseInteractionModal{})
	}
	m.form = nil
}

func (m Model) renderFormView() string {
	var s strings.Builder
	f := m.form

	noun := "CONTACT"
	if f.kind == TabInteractions {
		noun = "INTERACTION"
	}
	if f.editing {
		s.WriteString(titleStyle.Render("EDIT " + noun))
	} else {
		s.WriteString(titleStyle.Render("NEW " + noun))
	}
	s.WriteString("\n\n")

	for i, field := range f.fields {
		if i == f.focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		if field.options != nil {
			s.WriteString(field.label + ": ‹ " + field.options[field.choice].label + " ›")
		} else {
			s.WriteString(field.label + ": " + field.input.View())
		}
		s.WriteString("\n")
	}

	if f.err != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(f.err))
		s.WriteString("\n")
	}

	s.WriteString(m.renderFormHelp())
	return s.String()
}

func (m Model) renderFormHelp() string {
	help := []string{
		"Tab: Next field",
		"←/→: Change choice",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	field := &f.fields[f.focus]

	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil
	case "enter":
		m.saveForm()
		return m, nil
	case "left", "right":
		if field.options != nil {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			field.choice = (field.choice + step + len(field.options)) % len(field.options)
			return m, nil
		}
	}

	if field.options != nil {
		return m, nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return m, cmd
}

func (m *Model) saveForm() {
	f := m.form
	var err error

	if f.kind == TabContacts {
		c := f.contact
		c.FirstName = f.fields[contactFirstName].value()
		c.LastName = f.fields[contactLastName].value()
		c.Email = f.fields[contactEmail].value()
		c.Phone = f.fields[contactPhone].value()
		c.Company = f.fields[contactCompany].value()
		c.Position = f.fields[contactPosition].value()
		c.Tags = models.ParseTags(f.fields[contactTags].value())
		c.FollowUpDate = f.fields[contactFollowUp].value()
		c.Notes = f.fields[contactNotes].value()
		var saved models.Contact
		if f.editing {
			saved, err = m.session.UpdateContact(m.ctx, c)
		} else {
			saved, err = m.session.AddContact(m.ctx, c)
		}
		if err == nil {
			m.statusLine = "Saved " + saved.FullName()
		}
	} else {
		i := f.interaction
		i.ContactID = f.fields[interactionContact].value()
		i.Type = models.InteractionType(f.fields[interactionType].value())
		i.Date = f.fields[interactionDate].value()
		i.Notes = f.fields[interactionNotes].value()
		i.FollowUpDate = f.fields[interactionFollowUp].value()
		if f.editing {
			_, err = m.session.UpdateInteraction(m.ctx, i)
		} else {
			_, err = m.session.AddInteraction(m.ctx, i)
		}
		if err == nil {
			m.statusLine = "Saved interaction"
		}
	}

	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			f.err = verr.Message
		} else {
			f.err = err.Error()
		}
		return
	}
	m.closeForm()
}
