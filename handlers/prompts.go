// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides contact-summary and follow-up-suggestions prompts
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	session *crm.Session
	now     func() time.Time
}

func NewPromptHandlers(session *crm.Session) *PromptHandlers {
	return &PromptHandlers{session: session, now: time.Now}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "contact-summary":
		return h.getContactSummaryPrompt(request.Params.Arguments)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	contactID, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}

	state := h.session.State()
	contact, ok := store.FindContact(state, contactID)
	if !ok {
		return nil, fmt.Errorf("contact %s: %w", contactID, models.ErrNotFound)
	}
	tz := h.session.Timezone()

	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.FullName()))
	if contact.Email != "" {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", contact.Email))
	}
	if contact.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", contact.Company))
	}
	if contact.Position != "" {
		promptText.WriteString(fmt.Sprintf("Position: %s\n", contact.Position))
	}
	if len(contact.Tags) > 0 {
		promptText.WriteString(fmt.Sprintf("Tags: %s\n", models.FormatTags(contact.Tags)))
	}
	if contact.FollowUpDate != "" {
		promptText.WriteString(fmt.Sprintf("Follow-up: %s\n", dates.FormatDisplayDate(contact.FollowUpDate, tz)))
	}
	if contact.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", contact.Notes))
	}

	interactions := store.ContactInteractions(state, contact.ID)
	if len(interactions) > 0 {
		promptText.WriteString(fmt.Sprintf("\nInteractions (%d):\n", len(interactions)))
		for _, i := range interactions {
			promptText.WriteString(fmt.Sprintf("- %s %s: %s\n", dates.FormatDisplayDate(i.Date, tz), i.Type, i.Notes))
		}
	}

	promptText.WriteString("\nPlease analyze this contact and provide:")
	promptText.WriteString("\n1. A brief summary of their role and background")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")
	promptText.WriteString("\n3. Any patterns or insights from their interaction history")

	return userPrompt(fmt.Sprintf("Summary for contact: %s", contact.FullName()), promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	state := h.session.State()
	tz := h.session.Timezone()
	now := h.now()

	var promptText strings.Builder
	promptText.WriteString("Here are my contacts with follow-ups due or coming up this week:\n\n")
	count := 0
	for _, c := range store.VisibleContacts(store.Reduce(state, store.SetSortBy{SortBy: models.SortByName})) {
		if c.FollowUpDate == "" {
			continue
		}
		due := dates.IsDue(c.FollowUpDate, tz, now)
		if !due && !dates.IsThisWeek(c.FollowUpDate, tz, now) {
			continue
		}
		count++
		marker := "upcoming"
		if due {
			marker = "DUE"
		}
		promptText.WriteString(fmt.Sprintf("- %s (%s) follow-up %s [%s]\n",
			c.FullName(), c.Company, dates.FormatDisplayDate(c.FollowUpDate, tz), marker))
		if recent := store.ContactInteractions(state, c.ID); len(recent) > 0 {
			promptText.WriteString(fmt.Sprintf("  last: %s %s: %s\n", dates.FormatDisplayDate(recent[0].Date, tz), recent[0].Type, recent[0].Notes))
		}
	}
	if count == 0 {
		promptText.WriteString("(none)\n")
	}

	promptText.WriteString("\nFor each contact, suggest a short, specific follow-up message and the best channel.")

	return userPrompt(fmt.Sprintf("Follow-up suggestions for %d contacts", count), promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
