// ABOUTME: Session state and the pure reducer that transitions it
// ABOUTME: Transitions copy on write; earlier State values are never altered
package store

import "github.com/harperreed/solocrm/models"

// State is the in-memory session state.
type State struct {
	Contacts               []models.Contact
	Interactions           []models.Interaction
	IsContactModalOpen     bool
	IsInteractionModalOpen bool
	SelectedContact        *models.Contact
	SelectedInteraction    *models.Interaction
	SearchQuery            string
	FilterTag              string
	SortBy                 models.SortKey
	Loading                bool
	Error                  string
}

// Initial returns the state of a fresh session.
func Initial() State {
	return State{
		Contacts:     []models.Contact{},
		Interactions: []models.Interaction{},
		SortBy:       models.SortByName,
	}
}

// Reduce applies one action. Unknown actions return the state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetLoading:
		state.Loading = a.Loading
	case SetError:
		state.Error = a.Message
		state.Loading = false

	case SetContacts:
		state.Contacts = cloneSlice(a.Contacts)
		state.Loading = false
	case AddContact:
		state.Contacts = appendCopy(state.Contacts, a.Contact)
	case UpdateContact:
		state.Contacts = replaceByID(state.Contacts, a.Contact, func(c models.Contact) string { return c.ID })
	case DeleteContact:
		state.Contacts = removeByID(state.Contacts, a.ID, func(c models.Contact) string { return c.ID })

	case SetInteractions:
		state.Interactions = cloneSlice(a.Interactions)
	case AddInteraction:
		state.Interactions = appendCopy(state.Interactions, a.Interaction)
	case UpdateInteraction:
		state.Interactions = replaceByID(state.Interactions, a.Interaction, func(i models.Interaction) string { return i.ID })
	case DeleteInteraction:
		state.Interactions = removeByID(state.Interactions, a.ID, func(i models.Interaction) string { return i.ID })

	case OpenContactModal:
		state.IsContactModalOpen = true
		state.SelectedContact = clonePtr(a.Contact)
	case CloseContactModal:
		state.IsContactModalOpen = false
		state.SelectedContact = nil
	case OpenInteractionModal:
		state.IsInteractionModalOpen = true
		state.SelectedInteraction = clonePtr(a.Interaction)
	case CloseInteractionModal:
		state.IsInteractionModalOpen = false
		state.SelectedInteraction = nil

	case SetSearchQuery:
		state.SearchQuery = a.Query
	case SetFilterTag:
		state.FilterTag = a.Tag
	case SetSortBy:
		state.SortBy = a.SortBy
	}
	return state
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func appendCopy[T any](in []T, item T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, item)
}

func replaceByID[T any](in []T, item T, id func(T) string) []T {
	out := make([]T, len(in))
	target := id(item)
	for i, existing := range in {
		if id(existing) == target {
			out[i] = item
		} else {
			out[i] = existing
		}
	}
	return out
}

func removeByID[T any](in []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, existing := range in {
		if id(existing) != target {
			out = append(out, existing)
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
