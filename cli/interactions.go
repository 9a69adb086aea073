// ABOUTME: Interaction CLI commands
// ABOUTME: Log, list, edit and delete interactions from the terminal
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// now is replaced in tests.
var now = time.Now

// AddInteractionCommand logs an interaction with a contact.
func AddInteractionCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("add-interaction", flag.ContinueOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	kind := fs.String("type", string(models.InteractionEmail), "Email, Phone, Meeting, Event, Follow-up or Other")
	date := fs.String("date", "", "Day of the interaction (YYYY-MM-DD, default today)")
	notes := fs.String("notes", "", "What happened (required)")
	followUp := fs.String("follow-up", "", "Follow-up date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	interactionType, err := models.ParseInteractionType(*kind)
	if err != nil {
		return err
	}
	if *date == "" {
		*date = dates.Today(session.Timezone(), now())
	}

	interaction, err := session.AddInteraction(ctx, models.Interaction{
		ContactID:    *contactID,
		Type:         interactionType,
		Date:         *date,
		Notes:        *notes,
		FollowUpDate: *followUp,
	})
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	name := store.ContactName(session.State(), interaction.ContactID)
	session.LogActivity(ctx, "create", "interactions",
		fmt.Sprintf("Logged %s with %s", interaction.Type, name),
		map[string]any{"interaction_id": interaction.ID, "contact_id": interaction.ContactID})

	_, _ = fmt.Fprintf(stdout, "✓ %s logged with %s on %s (ID: %s)\n",
		interaction.Type, name, dates.FormatDisplayDate(interaction.Date, session.Timezone()), interaction.ID)
	return nil
}

// ListInteractionsCommand lists interactions, newest first by default.
func ListInteractionsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("list-interactions", flag.ContinueOnError)
	query := fs.String("query", "", "Search contact name, type and notes")
	contactID := fs.String("contact", "", "Only interactions with this contact")
	kind := fs.String("type", "", "Only interactions of this type")
	sortBy := fs.String("sort", store.InteractionSortDate, "Sort by date, type or contact")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := store.InteractionQuery{SortBy: *sortBy}
	if *kind != "" {
		t, err := models.ParseInteractionType(*kind)
		if err != nil {
			return err
		}
		q.Type = t
	}

	state := session.State()
	view := store.Reduce(state, store.SetSearchQuery{Query: *query})
	interactions := store.VisibleInteractions(view, q)
	if *contactID != "" {
		filtered := interactions[:0]
		for _, i := range interactions {
			if i.ContactID == *contactID {
				filtered = append(filtered, i)
			}
		}
		interactions = filtered
	}

	if len(interactions) == 0 {
		_, _ = fmt.Fprintln(stdout, "No interactions found")
		return nil
	}
	if *limit > 0 && len(interactions) > *limit {
		interactions = interactions[:*limit]
	}

	tz := session.Timezone()
	w := newTable()
	_, _ = fmt.Fprintln(w, "DATE\tTYPE\tCONTACT\tNOTES\tFOLLOW-UP\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t-------\t-----\t---------\t--")
	for _, i := range interactions {
		followUp := "-"
		if i.FollowUpDate != "" {
			followUp = dates.FormatDisplayDate(i.FollowUpDate, tz)
			if dates.IsDue(i.FollowUpDate, tz, now()) {
				followUp += " (due)"
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			dates.FormatDisplayDate(i.Date, tz), i.Type, store.ContactName(state, i.ContactID),
			truncate(i.Notes, 40), followUp, i.ID)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(stdout, "\n%d interaction(s)\n", len(interactions))
	return nil
}

// UpdateInteractionCommand changes only the flags that were given.
func UpdateInteractionCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("update-interaction", flag.ContinueOnError)
	contactID := fs.String("contact", "", "Contact ID")
	kind := fs.String("type", "", "Interaction type")
	date := fs.String("date", "", "Day of the interaction (YYYY-MM-DD)")
	notes := fs.String("notes", "", "What happened")
	followUp := fs.String("follow-up", "", "Follow-up date (YYYY-MM-DD, or 'none' to clear)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("interaction ID is required")
	}
	id := fs.Arg(0)

	interaction, ok := store.FindInteraction(session.State(), id)
	if !ok {
		return fmt.Errorf("interaction %s: %w", id, models.ErrNotFound)
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "contact":
			interaction.ContactID = *contactID
		case "type":
			interaction.Type, parseErr = models.ParseInteractionType(*kind)
		case "date":
			interaction.Date = *date
		case "notes":
			interaction.Notes = *notes
		case "follow-up":
			if strings.EqualFold(*followUp, "none") {
				interaction.FollowUpDate = ""
			} else {
				interaction.FollowUpDate = *followUp
			}
		}
	})
	if parseErr != nil {
		return parseErr
	}

	updated, err := session.UpdateInteraction(ctx, interaction)
	if err != nil {
		return fmt.Errorf("failed to update interaction: %w", err)
	}
	session.LogActivity(ctx, "update", "interactions",
		fmt.Sprintf("Updated %s with %s", updated.Type, store.ContactName(session.State(), updated.ContactID)),
		map[string]any{"interaction_id": updated.ID})

	_, _ = fmt.Fprintf(stdout, "✓ Interaction updated (ID: %s)\n", updated.ID)
	return nil
}

// DeleteInteractionCommand removes an interaction.
func DeleteInteractionCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("delete-interaction", flag.ContinueOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("interaction ID is required")
	}
	id := fs.Arg(0)

	interaction, ok := store.FindInteraction(session.State(), id)
	if !ok {
		return fmt.Errorf("interaction %s: %w", id, models.ErrNotFound)
	}

	if !*force && !confirm("Delete this interaction?") {
		_, _ = fmt.Fprintln(stdout, "Cancelled")
		return nil
	}

	if err := session.DeleteInteraction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}
	session.LogActivity(ctx, "delete", "interactions",
		fmt.Sprintf("Deleted %s with %s", interaction.Type, store.ContactName(session.State(), interaction.ContactID)),
		map[string]any{"interaction_id": id})

	_, _ = fmt.Fprintln(stdout, "✓ Interaction deleted")
	return nil
}
