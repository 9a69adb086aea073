// ABOUTME: Tests for the TUI model driven by synthetic key presses
// ABOUTME: Verifies forms, search, filters, sorting and deletion go through the Store
package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPrefs struct{ open bool }

func (p *memPrefs) SidebarOpen(def bool) bool { return p.open }

func (p *memPrefs) ToggleSidebar(def bool) (bool, error) {
	p.open = !p.open
	return p.open, nil
}

func setupModel(t *testing.T) (Model, *crm.Session) {
	t.Helper()
	repo, err := db.Open(filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	session := crm.NewSession(repo, logging.Discard(), crm.WithDefaultTimezone("UTC"))
	require.NoError(t, session.SignIn(context.Background(), models.User{ID: "u1"}))

	m := NewModel(context.Background(), session, &memPrefs{open: false})
	m.now = func() time.Time { return time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC) }
	return m, session
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
		_ = m.View()
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, runes(string(r)))
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func seed(t *testing.T, session *crm.Session) {
	t.Helper()
	ctx := context.Background()
	_, err := session.AddContact(ctx, models.Contact{FirstName: "Zoe", LastName: "Adams", Company: "Acme", Tags: []string{"vip"}})
	require.NoError(t, err)
	_, err = session.AddContact(ctx, models.Contact{FirstName: "Bob", LastName: "Ray", Company: "Zeta"})
	require.NoError(t, err)
}

func TestCreateContactThroughForm(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("n"))
	assert.True(t, session.State().IsContactModalOpen)
	assert.Contains(t, m.View(), "NEW CONTACT")

	m = typeText(t, m, "Ann")
	m = press(t, m, keyTab)
	m = typeText(t, m, "Lee")
	m = press(t, m, keyEnter)

	state := session.State()
	assert.False(t, state.IsContactModalOpen)
	require.Len(t, state.Contacts, 1)
	assert.Equal(t, "Ann Lee", state.Contacts[0].FullName())
	assert.Contains(t, m.View(), "Ann Lee")
}

func TestContactFormShowsValidationError(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("n"), keyEnter)
	assert.True(t, session.State().IsContactModalOpen)
	assert.Contains(t, m.View(), "First name is required")

	m = press(t, m, keyEsc)
	assert.False(t, session.State().IsContactModalOpen)
	assert.Nil(t, m.form)
}

func TestEditContact(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	// Name sort puts Bob first.
	m = press(t, m, runes("e"))
	require.NotNil(t, session.State().SelectedContact)
	assert.Equal(t, "Bob", session.State().SelectedContact.FirstName)

	m = press(t, m, keyTab, keyTab, keyTab, keyTab)
	m = typeText(t, m, " Labs")
	m = press(t, m, keyEnter)

	for _, c := range session.State().Contacts {
		if c.FirstName == "Bob" {
			assert.Equal(t, "Zeta Labs", c.Company)
		}
	}
}

func TestSearchDispatchesQuery(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	m = press(t, m, runes("/"))
	m = typeText(t, m, "acme")
	assert.Equal(t, "acme", session.State().SearchQuery)
	assert.Len(t, m.visibleContacts(), 1)

	// q types while searching instead of quitting
	m = typeText(t, m, "q")
	assert.Equal(t, "acmeq", session.State().SearchQuery)

	m = press(t, m, keyEsc)
	assert.Equal(t, "", session.State().SearchQuery)
	assert.False(t, m.searching)
}

func TestSortAndTagCycling(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	m = press(t, m, runes("s"))
	assert.Equal(t, models.SortByCompany, session.State().SortBy)
	m = press(t, m, runes("s"), runes("s"))
	assert.Equal(t, models.SortByName, session.State().SortBy)

	m = press(t, m, runes("t"))
	assert.Equal(t, "vip", session.State().FilterTag)
	assert.Len(t, m.visibleContacts(), 1)
	m = press(t, m, runes("t"))
	assert.Equal(t, "", session.State().FilterTag)
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	m = press(t, m, runes("d"))
	assert.Equal(t, ViewConfirmDelete, m.viewMode)
	m = press(t, m, runes("n"))
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, session.State().Contacts, 2)

	m = press(t, m, runes("d"), runes("y"))
	assert.Equal(t, ViewList, m.viewMode)
	require.Len(t, session.State().Contacts, 1)
	assert.Equal(t, "Zoe", session.State().Contacts[0].FirstName)
}

func TestLogInteractionFromDetail(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	m = press(t, m, keyDown, keyEnter)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "Zoe Adams")

	m = press(t, m, runes("i"))
	require.True(t, session.State().IsInteractionModalOpen)
	m = press(t, m, keyTab, keyRight, keyTab, keyTab)
	m = typeText(t, m, "coffee")
	m = press(t, m, keyEnter)

	state := session.State()
	assert.False(t, state.IsInteractionModalOpen)
	require.Len(t, state.Interactions, 1)
	i := state.Interactions[0]
	assert.Equal(t, models.InteractionPhone, i.Type)
	assert.Equal(t, "2024-03-06T12:00:00.000Z", i.Date)
	assert.Equal(t, "coffee", i.Notes)
	assert.Contains(t, m.View(), "coffee")
}

func TestInteractionFormRequiresContact(t *testing.T) {
	m, session := setupModel(t)
	seed(t, session)

	m = press(t, m, keyTab, runes("n"))
	m = press(t, m, keyTab, keyTab, keyTab)
	m = typeText(t, m, "notes")
	m = press(t, m, keyEnter)
	assert.Contains(t, m.View(), "Please select a contact")
	assert.Empty(t, session.State().Interactions)
}

func TestSidebarTogglePersists(t *testing.T) {
	m, _ := setupModel(t)
	assert.False(t, m.sidebar)
	m = press(t, m, runes("b"))
	assert.True(t, m.sidebar)
	assert.True(t, m.prefs.(*memPrefs).open)
	assert.Contains(t, m.View(), "OVERVIEW")
}

func TestStatusLineShowsError(t *testing.T) {
	m, session := setupModel(t)
	session.SignOut()
	m = press(t, m, runes("r"))
	assert.Contains(t, m.View(), "You must be signed in")
}
