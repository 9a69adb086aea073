// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements log_interaction, find_interactions, update_interaction, and delete_interaction tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type InteractionHandlers struct {
	session *crm.Session
	now     func() time.Time
}

func NewInteractionHandlers(session *crm.Session) *InteractionHandlers {
	return &InteractionHandlers{session: session, now: time.Now}
}

type LogInteractionInput struct {
	ContactID    string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Type         string `json:"type,omitempty" jsonschema:"Email, Phone, Meeting, Event, Follow-up or Other (default Email)"`
	Date         string `json:"date,omitempty" jsonschema:"Day of the interaction (YYYY-MM-DD, default today)"`
	Notes        string `json:"notes" jsonschema:"What happened (required)"`
	FollowUpDate string `json:"follow_up_date,omitempty" jsonschema:"Follow-up day (YYYY-MM-DD)"`
}

type InteractionOutput struct {
	ID           string `json:"id"`
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	Notes        string `json:"notes"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func (h *InteractionHandlers) LogInteraction(ctx context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	interactionType := models.InteractionEmail
	if input.Type != "" {
		parsed, err := models.ParseInteractionType(input.Type)
		if err != nil {
			return nil, InteractionOutput{}, err
		}
		interactionType = parsed
	}

	date := input.Date
	if date == "" {
		date = dates.Today(h.session.Timezone(), h.now())
	}

	interaction, err := h.session.AddInteraction(ctx, models.Interaction{
		ContactID:    input.ContactID,
		Type:         interactionType,
		Date:         date,
		Notes:        input.Notes,
		FollowUpDate: input.FollowUpDate,
	})
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	state := h.session.State()
	h.session.LogActivity(ctx, "create", "interactions",
		fmt.Sprintf("Logged %s with %s", interaction.Type, store.ContactName(state, interaction.ContactID)),
		map[string]any{"interaction_id": interaction.ID, "contact_id": interaction.ContactID})
	return nil, interactionToOutput(state, interaction), nil
}

type FindInteractionsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search query (searches contact name, type and notes)"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Only interactions with this contact"`
	Type      string `json:"type,omitempty" jsonschema:"Only interactions of this type"`
	SortBy    string `json:"sort_by,omitempty" jsonschema:"Ordering: date, type or contact"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

type FindInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
	Total        int                 `json:"total"`
}

func (h *InteractionHandlers) FindInteractions(_ context.Context, request *mcp.CallToolRequest, input FindInteractionsInput) (*mcp.CallToolResult, FindInteractionsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	query := store.InteractionQuery{SortBy: input.SortBy}
	if input.Type != "" {
		parsed, err := models.ParseInteractionType(input.Type)
		if err != nil {
			return nil, FindInteractionsOutput{}, err
		}
		query.Type = parsed
	}

	state := h.session.State()
	view := store.Reduce(state, store.SetSearchQuery{Query: input.Query})
	var interactions []models.Interaction
	for _, i := range store.VisibleInteractions(view, query) {
		if input.ContactID == "" || i.ContactID == input.ContactID {
			interactions = append(interactions, i)
		}
	}
	total := len(interactions)
	if len(interactions) > limit {
		interactions = interactions[:limit]
	}

	result := make([]InteractionOutput, len(interactions))
	for i, interaction := range interactions {
		result[i] = interactionToOutput(state, interaction)
	}

	return nil, FindInteractionsOutput{Interactions: result, Total: total}, nil
}

type UpdateInteractionInput struct {
	ID           string `json:"id" jsonschema:"Interaction ID (required)"`
	ContactID    string `json:"contact_id,omitempty" jsonschema:"Move to another contact"`
	Type         string `json:"type,omitempty" jsonschema:"New type"`
	Date         string `json:"date,omitempty" jsonschema:"New day (YYYY-MM-DD)"`
	Notes        string `json:"notes,omitempty" jsonschema:"New notes"`
	FollowUpDate string `json:"follow_up_date,omitempty" jsonschema:"New follow-up day (YYYY-MM-DD), or 'none' to clear"`
}

func (h *InteractionHandlers) UpdateInteraction(ctx context.Context, request *mcp.CallToolRequest, input UpdateInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if input.ID == "" {
		return nil, InteractionOutput{}, fmt.Errorf("id is required")
	}

	interaction, ok := store.FindInteraction(h.session.State(), input.ID)
	if !ok {
		return nil, InteractionOutput{}, fmt.Errorf("interaction %s: %w", input.ID, models.ErrNotFound)
	}

	setIfPresent(&interaction.ContactID, input.ContactID)
	setIfPresent(&interaction.Date, input.Date)
	setIfPresent(&interaction.Notes, input.Notes)
	if input.Type != "" {
		parsed, err := models.ParseInteractionType(input.Type)
		if err != nil {
			return nil, InteractionOutput{}, err
		}
		interaction.Type = parsed
	}
	switch input.FollowUpDate {
	case "":
	case "none":
		interaction.FollowUpDate = ""
	default:
		interaction.FollowUpDate = input.FollowUpDate
	}

	updated, err := h.session.UpdateInteraction(ctx, interaction)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to update interaction: %w", err)
	}

	h.session.LogActivity(ctx, "update", "interactions", "Updated interaction", map[string]any{"interaction_id": updated.ID})
	return nil, interactionToOutput(h.session.State(), updated), nil
}

func (h *InteractionHandlers) DeleteInteraction(ctx context.Context, request *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	if err := h.session.DeleteInteraction(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete interaction: %w", err)
	}

	h.session.LogActivity(ctx, "delete", "interactions", "Deleted interaction", map[string]any{"interaction_id": input.ID})
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}

func interactionToOutput(state store.State, interaction models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:           interaction.ID,
		ContactID:    interaction.ContactID,
		ContactName:  store.ContactName(state, interaction.ContactID),
		Type:         string(interaction.Type),
		Date:         dates.FormatForDateInput(interaction.Date),
		Notes:        interaction.Notes,
		FollowUpDate: dates.FormatForDateInput(interaction.FollowUpDate),
		CreatedAt:    interaction.CreatedAt.Format(time.RFC3339),
	}
}
