// ABOUTME: Closed set of Store actions
// ABOUTME: Each action is a struct implementing the sealed Action interface
package store

import "github.com/harperreed/solocrm/models"

// Action is a state transition request. Only types in this package implement it.
type Action interface {
	// Type returns the action's wire name, e.g. ADD_CONTACT.
	Type() string
	sealed()
}

type (
	SetLoading struct{ Loading bool }
	SetError   struct{ Message string }

	SetContacts   struct{ Contacts []models.Contact }
	AddContact    struct{ Contact models.Contact }
	UpdateContact struct{ Contact models.Contact }
	DeleteContact struct{ ID string }

	SetInteractions   struct{ Interactions []models.Interaction }
	AddInteraction    struct{ Interaction models.Interaction }
	UpdateInteraction struct{ Interaction models.Interaction }
	DeleteInteraction struct{ ID string }

	// OpenContactModal opens the contact form; a nil Contact means create mode.
	OpenContactModal  struct{ Contact *models.Contact }
	CloseContactModal struct{}

	// OpenInteractionModal opens the interaction form; a nil Interaction means create mode.
	OpenInteractionModal  struct{ Interaction *models.Interaction }
	CloseInteractionModal struct{}

	SetSearchQuery struct{ Query string }
	SetFilterTag   struct{ Tag string }
	SetSortBy      struct{ SortBy models.SortKey }
)

func (SetLoading) Type() string            { return "SET_LOADING" }
func (SetError) Type() string              { return "SET_ERROR" }
func (SetContacts) Type() string           { return "SET_CONTACTS" }
func (AddContact) Type() string            { return "ADD_CONTACT" }
func (UpdateContact) Type() string         { return "UPDATE_CONTACT" }
func (DeleteContact) Type() string         { return "DELETE_CONTACT" }
func (SetInteractions) Type() string       { return "SET_INTERACTIONS" }
func (AddInteraction) Type() string        { return "ADD_INTERACTION" }
func (UpdateInteraction) Type() string     { return "UPDATE_INTERACTION" }
func (DeleteInteraction) Type() string     { return "DELETE_INTERACTION" }
func (OpenContactModal) Type() string      { return "OPEN_CONTACT_MODAL" }
func (CloseContactModal) Type() string     { return "CLOSE_CONTACT_MODAL" }
func (OpenInteractionModal) Type() string  { return "OPEN_INTERACTION_MODAL" }
func (CloseInteractionModal) Type() string { return "CLOSE_INTERACTION_MODAL" }
func (SetSearchQuery) Type() string        { return "SET_SEARCH_QUERY" }
func (SetFilterTag) Type() string          { return "SET_FILTER_TAG" }
func (SetSortBy) Type() string             { return "SET_SORT_BY" }

func (SetLoading) sealed()            {}
func (SetError) sealed()              {}
func (SetContacts) sealed()           {}
func (AddContact) sealed()            {}
func (UpdateContact) sealed()         {}
func (DeleteContact) sealed()         {}
func (SetInteractions) sealed()       {}
func (AddInteraction) sealed()        {}
func (UpdateInteraction) sealed()     {}
func (DeleteInteraction) sealed()     {}
func (OpenContactModal) sealed()      {}
func (CloseContactModal) sealed()     {}
func (OpenInteractionModal) sealed()  {}
func (CloseInteractionModal) sealed() {}
func (SetSearchQuery) sealed()        {}
func (SetFilterTag) sealed()          {}
func (SetSortBy) sealed()             {}
