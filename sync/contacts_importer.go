// ABOUTME: Google Contacts API importer
// ABOUTME: Pages through the People API and merges contacts into a session, deduplicated by email
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/models"
	"google.golang.org/api/people/v1"
)

// GoogleTag marks every contact that came from or was touched by a Google import.
const GoogleTag = "google"

type ContactsImporter struct {
	session *crm.Session
	fetcher PeopleFetcher
	matcher *ContactMatcher
}

type GoogleContact struct {
	ResourceName string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Company      string
	JobTitle     string
	Notes        string
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

func NewContactsImporter(session *crm.Session, fetcher PeopleFetcher) *ContactsImporter {
	return &ContactsImporter{
		session: session,
		fetcher: fetcher,
	}
}

// Import fetches every page of connections and imports them.
func (ci *ContactsImporter) Import(ctx context.Context) (ImportStats, error) {
	var stats ImportStats
	ci.matcher = NewContactMatcher(ci.session.State().Contacts)

	pageToken := ""
	for {
		persons, next, err := ci.fetcher.FetchConnections(ctx, pageToken)
		if err != nil {
			return stats, err
		}

		for _, person := range persons {
			stats.Fetched++
			gc := ExtractContactData(person)
			if gc == nil {
				stats.Skipped++
				continue
			}

			created, err := ci.ImportContact(ctx, gc)
			if err != nil {
				var verr *models.ValidationError
				if errors.As(err, &verr) {
					stats.Skipped++
					continue
				}
				return stats, err
			}
			if created {
				stats.Created++
			} else {
				stats.Updated++
			}
		}

		if next == "" {
			break
		}
		pageToken = next
	}

	ci.session.LogActivity(ctx, "import_google_contacts", "contacts",
		fmt.Sprintf("Imported %d contacts from Google", stats.Created+stats.Updated),
		map[string]any{"created": stats.Created, "updated": stats.Updated, "skipped": stats.Skipped})

	return stats, nil
}

// ImportContact imports a single contact. It reports true when a new contact was created.
func (ci *ContactsImporter) ImportContact(ctx context.Context, gc *GoogleContact) (bool, error) {
	if ci.matcher == nil {
		ci.matcher = NewContactMatcher(ci.session.State().Contacts)
	}

	if existing, found := ci.matcher.FindMatch(gc.Email); found {
		merged := mergeContact(existing, gc)
		updated, err := ci.session.UpdateContact(ctx, merged)
		if err != nil {
			return false, fmt.Errorf("failed to update contact: %w", err)
		}
		ci.matcher.AddContact(updated)
		return false, nil
	}

	contact := models.Contact{
		FirstName: gc.FirstName,
		LastName:  gc.LastName,
		Email:     gc.Email,
		Phone:     gc.Phone,
		Company:   gc.Company,
		Position:  gc.JobTitle,
		Notes:     gc.Notes,
		Tags:      []string{GoogleTag},
	}

	created, err := ci.session.AddContact(ctx, contact)
	if err != nil {
		return false, fmt.Errorf("failed to create contact: %w", err)
	}
	ci.matcher.AddContact(created)
	return true, nil
}

// mergeContact fills only the fields the existing contact leaves blank.
func mergeContact(existing models.Contact, gc *GoogleContact) models.Contact {
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	fill(&existing.Phone, gc.Phone)
	fill(&existing.Company, gc.Company)
	fill(&existing.Position, gc.JobTitle)
	fill(&existing.Notes, gc.Notes)

	if !existing.HasTag(GoogleTag) {
		existing.Tags = append(append([]string{}, existing.Tags...), GoogleTag)
	}
	return existing
}

// ExtractContactData converts a People API person. It returns nil for entries without a name or email.
func ExtractContactData(person *people.Person) *GoogleContact {
	if person == nil {
		return nil
	}

	gc := &GoogleContact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		name := person.Names[0]
		gc.FirstName = strings.TrimSpace(name.GivenName)
		gc.LastName = strings.TrimSpace(name.FamilyName)
		if gc.FirstName == "" && gc.LastName == "" {
			gc.FirstName, gc.LastName = splitName(name.DisplayName)
		}
	}

	if len(person.EmailAddresses) > 0 {
		gc.Email = strings.TrimSpace(person.EmailAddresses[0].Value)
	}

	if gc.Email == "" || (gc.FirstName == "" && gc.LastName == "") {
		return nil
	}

	if len(person.PhoneNumbers) > 0 {
		gc.Phone = person.PhoneNumbers[0].Value
	}

	if len(person.Organizations) > 0 {
		gc.Company = person.Organizations[0].Name
		gc.JobTitle = person.Organizations[0].Title
	}

	if len(person.Biographies) > 0 {
		gc.Notes = person.Biographies[0].Value
	}

	return gc
}

func splitName(display string) (string, string) {
	fields := strings.Fields(display)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
