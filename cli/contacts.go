// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// AddContactCommand adds a new contact.
func AddContactCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ContinueOnError)
	first := fs.String("first", "", "First name (required)")
	last := fs.String("last", "", "Last name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	position := fs.String("position", "", "Job title")
	notes := fs.String("notes", "", "Notes about the contact")
	tags := fs.String("tags", "", "Comma-separated tags")
	followUp := fs.String("follow-up", "", "Follow-up date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	contact, err := session.AddContact(ctx, models.Contact{
		FirstName:    *first,
		LastName:     *last,
		Email:        *email,
		Phone:        *phone,
		Company:      *company,
		Position:     *position,
		Notes:        *notes,
		Tags:         models.ParseTags(*tags),
		FollowUpDate: *followUp,
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	session.LogActivity(ctx, "create", "contacts", "Created contact "+contact.FullName(), map[string]any{"contact_id": contact.ID})

	_, _ = fmt.Fprintf(stdout, "✓ Contact created: %s (ID: %s)\n", contact.FullName(), contact.ID)
	if contact.Email != "" {
		_, _ = fmt.Fprintf(stdout, "  Email: %s\n", contact.Email)
	}
	if contact.Company != "" {
		_, _ = fmt.Fprintf(stdout, "  Company: %s\n", contact.Company)
	}
	return nil
}

// ListContactsCommand lists contacts with optional search, tag filter and sort.
func ListContactsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ContinueOnError)
	query := fs.String("query", "", "Search by name, email or company")
	tag := fs.String("tag", "", "Only contacts with this tag")
	sortBy := fs.String("sort", string(models.SortByName), "Sort by name, company or date")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := models.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}

	view := store.Reduce(session.State(), store.SetSearchQuery{Query: *query})
	view = store.Reduce(view, store.SetFilterTag{Tag: *tag})
	view = store.Reduce(view, store.SetSortBy{SortBy: key})
	contacts := store.VisibleContacts(view)

	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(stdout, "No contacts found")
		return nil
	}
	if *limit > 0 && len(contacts) > *limit {
		contacts = contacts[:*limit]
	}

	tz := session.Timezone()
	w := newTable()
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tCOMPANY\tTAGS\tFOLLOW-UP\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t-------\t----\t---------\t--")
	for _, c := range contacts {
		followUp := "-"
		if c.FollowUpDate != "" {
			followUp = dates.FormatDisplayDate(c.FollowUpDate, tz)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.FullName(), orDash(c.Email), orDash(c.Phone), orDash(c.Company),
			orDash(strings.Join(c.Tags, ",")), followUp, c.ID)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(stdout, "\n%d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand changes only the flags that were given.
func UpdateContactCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ContinueOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	position := fs.String("position", "", "Job title")
	notes := fs.String("notes", "", "Notes about the contact")
	tags := fs.String("tags", "", "Comma-separated tags (replaces existing)")
	followUp := fs.String("follow-up", "", "Follow-up date (YYYY-MM-DD, or 'none' to clear)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	contact, ok := store.FindContact(session.State(), id)
	if !ok {
		return fmt.Errorf("contact %s: %w", id, models.ErrNotFound)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first":
			contact.FirstName = *first
		case "last":
			contact.LastName = *last
		case "email":
			contact.Email = *email
		case "phone":
			contact.Phone = *phone
		case "company":
			contact.Company = *company
		case "position":
			contact.Position = *position
		case "notes":
			contact.Notes = *notes
		case "tags":
			contact.Tags = models.ParseTags(*tags)
		case "follow-up":
			if strings.EqualFold(*followUp, "none") {
				contact.FollowUpDate = ""
			} else {
				contact.FollowUpDate = *followUp
			}
		}
	})

	updated, err := session.UpdateContact(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	session.LogActivity(ctx, "update", "contacts", "Updated contact "+updated.FullName(), map[string]any{"contact_id": updated.ID})

	_, _ = fmt.Fprintf(stdout, "✓ Contact updated: %s (ID: %s)\n", updated.FullName(), updated.ID)
	return nil
}

// DeleteContactCommand removes a contact. Its interactions are kept.
func DeleteContactCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ContinueOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	contact, ok := store.FindContact(session.State(), id)
	if !ok {
		return fmt.Errorf("contact %s: %w", id, models.ErrNotFound)
	}

	if !*force && !confirm(fmt.Sprintf("Delete %s? Their interactions will be kept.", contact.FullName())) {
		_, _ = fmt.Fprintln(stdout, "Cancelled")
		return nil
	}

	if err := session.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	session.LogActivity(ctx, "delete", "contacts", "Deleted contact "+contact.FullName(), map[string]any{"contact_id": id})

	_, _ = fmt.Fprintf(stdout, "✓ Contact deleted: %s\n", contact.FullName())
	return nil
}
