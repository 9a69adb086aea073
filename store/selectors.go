// ABOUTME: Derived views over session state for list pages
// ABOUTME: Search, tag filtering, sorting and contact name lookup
package store

import (
	"sort"
	"strings"

	"github.com/harperreed/solocrm/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnknownContact is shown for interactions whose contact no longer exists.
const UnknownContact = "Unknown Contact"

// Interaction list orderings.
const (
	InteractionSortDate    = "date"
	InteractionSortType    = "type"
	InteractionSortContact = "contact"
)

// InteractionQuery narrows the interaction list. Search comes from State.SearchQuery.
type InteractionQuery struct {
	Type   models.InteractionType
	SortBy string
}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}

// VisibleContacts applies the search query, tag filter and sort key.
func VisibleContacts(s State) []models.Contact {
	query := strings.ToLower(strings.TrimSpace(s.SearchQuery))
	out := make([]models.Contact, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		if query != "" {
			haystack := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email + " " + c.Company)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		if s.FilterTag != "" && !c.HasTag(s.FilterTag) {
			continue
		}
		out = append(out, c)
	}

	col := newCollator()
	switch s.SortBy {
	case models.SortByCompany:
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Company, out[j].Company) < 0
		})
	case models.SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].FirstName+" "+out[i].LastName, out[j].FirstName+" "+out[j].LastName) < 0
		})
	}
	return out
}

// VisibleInteractions applies the search query, optional type filter and ordering.
func VisibleInteractions(s State, q InteractionQuery) []models.Interaction {
	names := contactNames(s)
	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return UnknownContact
	}

	query := strings.ToLower(strings.TrimSpace(s.SearchQuery))
	out := make([]models.Interaction, 0, len(s.Interactions))
	for _, i := range s.Interactions {
		if query != "" {
			haystack := strings.ToLower(nameOf(i.ContactID) + " " + string(i.Type) + " " + i.Notes)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		if q.Type != "" && i.Type != q.Type {
			continue
		}
		out = append(out, i)
	}

	col := newCollator()
	switch q.SortBy {
	case InteractionSortType:
		sort.SliceStable(out, func(a, b int) bool {
			return col.CompareString(string(out[a].Type), string(out[b].Type)) < 0
		})
	case InteractionSortContact:
		sort.SliceStable(out, func(a, b int) bool {
			return col.CompareString(nameOf(out[a].ContactID), nameOf(out[b].ContactID)) < 0
		})
	default:
		// Calendar values share one textual form, so they order lexically.
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Date > out[b].Date
		})
	}
	return out
}

// AllTags returns every distinct tag in first-seen order.
func AllTags(s State) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, c := range s.Contacts {
		for _, t := range c.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// ContactName returns the full name for id, or UnknownContact when it is dangling.
func ContactName(s State, id string) string {
	if c, ok := FindContact(s, id); ok {
		return c.FullName()
	}
	return UnknownContact
}

// FindContact looks up a contact by id.
func FindContact(s State, id string) (models.Contact, bool) {
	for _, c := range s.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contact{}, false
}

// FindInteraction looks up an interaction by id.
func FindInteraction(s State, id string) (models.Interaction, bool) {
	for _, i := range s.Interactions {
		if i.ID == id {
			return i, true
		}
	}
	return models.Interaction{}, false
}

// ContactInteractions returns a contact's interactions, newest date first.
func ContactInteractions(s State, contactID string) []models.Interaction {
	var out []models.Interaction
	for _, i := range s.Interactions {
		if i.ContactID == contactID {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date > out[b].Date })
	return out
}

// RecentContacts returns the last n contacts to arrive, newest first.
func RecentContacts(s State, n int) []models.Contact {
	return lastReversed(s.Contacts, n)
}

// RecentInteractions returns the last n interactions to arrive, newest first.
func RecentInteractions(s State, n int) []models.Interaction {
	return lastReversed(s.Interactions, n)
}

func lastReversed[T any](in []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(in) {
		n = len(in)
	}
	out := make([]T, 0, n)
	for i := len(in) - 1; i >= len(in)-n; i-- {
		out = append(out, in[i])
	}
	return out
}

func contactNames(s State) map[string]string {
	names := make(map[string]string, len(s.Contacts))
	for _, c := range s.Contacts {
		names[c.ID] = c.FullName()
	}
	return names
}
