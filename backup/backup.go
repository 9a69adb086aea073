// ABOUTME: JSON export and import of a session's contacts, interactions and settings
// ABOUTME: Import replaces each collection given as a list and ignores other keys
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// Version is written into every export.
const Version = "1.0"

// Document is the export file layout.
type Document struct {
	Contacts     []models.Contact     `json:"contacts"`
	Interactions []models.Interaction `json:"interactions"`
	Settings     models.UserSettings  `json:"settings"`
	ExportDate   time.Time            `json:"exportDate"`
	Version      string               `json:"version"`
}

// Filename returns crm-backup-YYYY-MM-DD.json for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("crm-backup-%s.json", now.Format("2006-01-02"))
}

// Build assembles the export document from a state snapshot.
func Build(state store.State, settings models.UserSettings, now time.Time) Document {
	contacts := state.Contacts
	if contacts == nil {
		contacts = []models.Contact{}
	}
	interactions := state.Interactions
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	return Document{
		Contacts:     contacts,
		Interactions: interactions,
		Settings:     settings,
		ExportDate:   now.UTC(),
		Version:      Version,
	}
}

// Export writes the indented export document to w.
func Export(w io.Writer, state store.State, settings models.UserSettings, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(state, settings, now)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Result reports what an import replaced.
type Result struct {
	ContactsReplaced     bool `json:"contactsReplaced"`
	ContactCount         int  `json:"contactCount"`
	InteractionsReplaced bool `json:"interactionsReplaced"`
	InteractionCount     int  `json:"interactionCount"`
}

// Parse decodes an import file without applying it. Only JSON that does not
// parse, or a bare null, is ErrMalformedImport. A contacts or interactions key
// that is not a list comes back nil and is left alone by Import.
func Parse(r io.Reader) (contacts []models.Contact, interactions []models.Interaction, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read import: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, nil, fmt.Errorf("%w: not valid JSON", models.ErrMalformedImport)
	}
	switch data[0] {
	case 'n':
		return nil, nil, fmt.Errorf("%w: file holds null", models.ErrMalformedImport)
	case '{':
	default:
		return nil, nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrMalformedImport, err)
	}
	return decodeList[models.Contact](raw["contacts"]), decodeList[models.Interaction](raw["interactions"]), nil
}

// decodeList returns nil unless msg is a list. Elements that are not objects
// are skipped, and fields whose values do not fit the record stay empty.
func decodeList[T any](msg json.RawMessage) []T {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if rec, ok := decodeRecord[T](item); ok {
			out = append(out, rec)
		}
	}
	return out
}

func decodeRecord[T any](item json.RawMessage) (T, bool) {
	var rec T
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '{' {
		return rec, false
	}
	if err := json.Unmarshal(item, &rec); err == nil {
		return rec, true
	}

	// salvage field by field
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return rec, false
	}
	rec = *new(T)
	for name, val := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: val})
		if err != nil {
			continue
		}
		next := rec
		if json.Unmarshal(one, &next) == nil {
			rec = next
		}
	}
	return rec, true
}

// Import parses r and replaces the Store's collection for each key holding a list.
// The Store is untouched when the file is malformed.
func Import(r io.Reader, st *store.Store) (Result, error) {
	contacts, interactions, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	var res Result
	if contacts != nil {
		for i := range contacts {
			if contacts[i].Tags == nil {
				contacts[i].Tags = []string{}
			}
		}
		st.Dispatch(store.SetContacts{Contacts: contacts})
		res.ContactsReplaced = true
		res.ContactCount = len(contacts)
	}
	if interactions != nil {
		st.Dispatch(store.SetInteractions{Interactions: interactions})
		res.InteractionsReplaced = true
		res.InteractionCount = len(interactions)
	}
	return res, nil
}
