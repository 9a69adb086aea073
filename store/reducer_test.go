// ABOUTME: Tests for the reducer and the Store holder
// ABOUTME: Covers every action, immutability and subscription ordering
package store

import (
	"sync"
	"testing"
	"time"

	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contact(id, first, last string) models.Contact {
	return models.Contact{ID: id, FirstName: first, LastName: last, Tags: []string{}}
}

type unknownAction struct{ SetLoading }

func (unknownAction) Type() string { return "SOMETHING_ELSE" }

func TestInitialState(t *testing.T) {
	s := Initial()
	assert.Equal(t, models.SortByName, s.SortBy)
	assert.Empty(t, s.Contacts)
	assert.Empty(t, s.Interactions)
	assert.False(t, s.Loading)
	assert.Equal(t, "", s.Error)
}

func TestLoadingAndError(t *testing.T) {
	s := Reduce(Initial(), SetLoading{Loading: true})
	assert.True(t, s.Loading)

	s = Reduce(s, SetError{Message: "boom"})
	assert.Equal(t, "boom", s.Error)
	assert.False(t, s.Loading)

	s = Reduce(Reduce(Initial(), SetLoading{Loading: true}), SetContacts{Contacts: []models.Contact{contact("1", "A", "B")}})
	assert.False(t, s.Loading)
	assert.Len(t, s.Contacts, 1)
}

func TestContactCollection(t *testing.T) {
	s := Reduce(Initial(), SetContacts{Contacts: []models.Contact{contact("1", "Ann", "Lee"), contact("2", "Bob", "Ray")}})

	s = Reduce(s, AddContact{Contact: contact("3", "Cy", "Ode")})
	require.Len(t, s.Contacts, 3)
	assert.Equal(t, "3", s.Contacts[2].ID)

	updated := contact("2", "Robert", "Ray")
	s = Reduce(s, UpdateContact{Contact: updated})
	assert.Equal(t, "Robert", s.Contacts[1].FirstName)
	assert.Len(t, s.Contacts, 3)

	s = Reduce(s, UpdateContact{Contact: contact("missing", "X", "Y")})
	assert.Len(t, s.Contacts, 3)

	s = Reduce(s, DeleteContact{ID: "1"})
	require.Len(t, s.Contacts, 2)
	assert.Equal(t, "2", s.Contacts[0].ID)

	s = Reduce(s, DeleteContact{ID: "missing"})
	assert.Len(t, s.Contacts, 2)
}

func TestInteractionCollection(t *testing.T) {
	i1 := models.Interaction{ID: "i1", ContactID: "1", Type: models.InteractionEmail, Notes: "a"}
	i2 := models.Interaction{ID: "i2", ContactID: "1", Type: models.InteractionPhone, Notes: "b"}

	s := Reduce(Initial(), SetInteractions{Interactions: []models.Interaction{i1}})
	s = Reduce(s, AddInteraction{Interaction: i2})
	require.Len(t, s.Interactions, 2)

	i2.Notes = "changed"
	s = Reduce(s, UpdateInteraction{Interaction: i2})
	assert.Equal(t, "changed", s.Interactions[1].Notes)

	s = Reduce(s, DeleteInteraction{ID: "i1"})
	require.Len(t, s.Interactions, 1)
	assert.Equal(t, "i2", s.Interactions[0].ID)
}

func TestDeletingContactKeepsInteractions(t *testing.T) {
	s := Reduce(Initial(), SetContacts{Contacts: []models.Contact{contact("1", "A", "B")}})
	s = Reduce(s, SetInteractions{Interactions: []models.Interaction{{ID: "i1", ContactID: "1"}}})
	s = Reduce(s, DeleteContact{ID: "1"})
	assert.Len(t, s.Interactions, 1)
	assert.Equal(t, UnknownContact, ContactName(s, "1"))
}

func TestAddThenDeleteRestoresContacts(t *testing.T) {
	for _, seed := range [][]models.Contact{nil, {contact("1", "Ann", "Lee"), contact("2", "Bob", "Ray")}} {
		s := Reduce(Initial(), SetContacts{Contacts: seed})
		before := s.Contacts

		s = Reduce(s, AddContact{Contact: contact("9", "New", "Person")})
		require.Len(t, s.Contacts, len(before)+1)

		s = Reduce(s, DeleteContact{ID: "9"})
		assert.Equal(t, before, s.Contacts)
	}
}

func TestAddOpenCloseContact(t *testing.T) {
	ada := models.Contact{ID: "1", FirstName: "Ada", LastName: "Lovelace", Tags: []string{}}

	s := Reduce(Initial(), AddContact{Contact: ada})
	require.Len(t, s.Contacts, 1)
	assert.Equal(t, ada, s.Contacts[0])

	s = Reduce(s, OpenContactModal{Contact: &s.Contacts[0]})
	assert.True(t, s.IsContactModalOpen)
	require.NotNil(t, s.SelectedContact)
	assert.Equal(t, "1", s.SelectedContact.ID)

	s = Reduce(s, CloseContactModal{})
	assert.False(t, s.IsContactModalOpen)
	assert.Nil(t, s.SelectedContact)
	assert.Len(t, s.Contacts, 1)
}

func TestModals(t *testing.T) {
	c := contact("1", "A", "B")
	s := Reduce(Initial(), OpenContactModal{Contact: &c})
	assert.True(t, s.IsContactModalOpen)
	require.NotNil(t, s.SelectedContact)
	assert.Equal(t, "1", s.SelectedContact.ID)

	c.FirstName = "mutated after dispatch"
	assert.Equal(t, "A", s.SelectedContact.FirstName)

	s = Reduce(s, CloseContactModal{})
	assert.False(t, s.IsContactModalOpen)
	assert.Nil(t, s.SelectedContact)

	s = Reduce(s, OpenContactModal{})
	assert.True(t, s.IsContactModalOpen)
	assert.Nil(t, s.SelectedContact)

	s = Reduce(s, OpenInteractionModal{Interaction: &models.Interaction{ID: "i1"}})
	assert.True(t, s.IsInteractionModalOpen)
	assert.Equal(t, "i1", s.SelectedInteraction.ID)

	s = Reduce(s, CloseInteractionModal{})
	assert.False(t, s.IsInteractionModalOpen)
	assert.Nil(t, s.SelectedInteraction)
}

func TestViewSettings(t *testing.T) {
	s := Reduce(Initial(), SetSearchQuery{Query: "ann"})
	s = Reduce(s, SetFilterTag{Tag: "vip"})
	s = Reduce(s, SetSortBy{SortBy: models.SortByDate})
	assert.Equal(t, "ann", s.SearchQuery)
	assert.Equal(t, "vip", s.FilterTag)
	assert.Equal(t, models.SortByDate, s.SortBy)
}

func TestUnknownActionIsNoop(t *testing.T) {
	s := Reduce(Initial(), SetSearchQuery{Query: "q"})
	next := Reduce(s, unknownAction{})
	assert.Equal(t, s, next)
}

func TestReduceDoesNotMutatePriorState(t *testing.T) {
	before := Reduce(Initial(), SetContacts{Contacts: []models.Contact{contact("1", "A", "B"), contact("2", "C", "D")}})
	snapshot := append([]models.Contact(nil), before.Contacts...)

	_ = Reduce(before, UpdateContact{Contact: contact("1", "Z", "Z")})
	_ = Reduce(before, AddContact{Contact: contact("3", "E", "F")})
	_ = Reduce(before, DeleteContact{ID: "2"})

	assert.Equal(t, snapshot, before.Contacts)
}

func TestSetContactsCopiesPayload(t *testing.T) {
	payload := []models.Contact{contact("1", "A", "B")}
	s := Reduce(Initial(), SetContacts{Contacts: payload})
	payload[0].FirstName = "changed"
	assert.Equal(t, "A", s.Contacts[0].FirstName)
}

func TestReplayIsDeterministic(t *testing.T) {
	actions := []Action{
		SetLoading{Loading: true},
		SetContacts{Contacts: []models.Contact{contact("1", "A", "B")}},
		AddContact{Contact: contact("2", "C", "D")},
		SetSortBy{SortBy: models.SortByCompany},
		DeleteContact{ID: "1"},
	}
	run := func() State {
		s := Initial()
		for _, a := range actions {
			s = Reduce(s, a)
		}
		return s
	}
	assert.Equal(t, run(), run())
}

func TestStoreDispatchAndSubscribe(t *testing.T) {
	st := New(Initial())

	var seen []string
	unsubscribe := st.Subscribe(func(s State) {
		seen = append(seen, s.SearchQuery)
	})

	st.Dispatch(SetSearchQuery{Query: "a"})
	st.Dispatch(SetSearchQuery{Query: "b"})
	unsubscribe()
	st.Dispatch(SetSearchQuery{Query: "c"})

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, "c", st.State().SearchQuery)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	st := New(Initial())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			st.Dispatch(AddContact{Contact: models.Contact{ID: time.Duration(n).String()}})
		}(i)
	}
	wg.Wait()
	assert.Len(t, st.State().Contacts, 50)
}
