// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, and delete_contact tools
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

type ContactHandlers struct {
	session *crm.Session
}

func NewContactHandlers(session *crm.Session) *ContactHandlers {
	return &ContactHandlers{session: session}
}

type AddContactInput struct {
	FirstName    string   `json:"first_name" jsonschema:"First name (required)"`
	LastName     string   `json:"last_name" jsonschema:"Last name (required)"`
	Email        string   `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone        string   `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Company      string   `json:"company,omitempty" jsonschema:"Company the contact works at"`
	Position     string   `json:"position,omitempty" jsonschema:"Job title"`
	Notes        string   `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	FollowUpDate string   `json:"follow_up_date,omitempty" jsonschema:"Follow-up day (YYYY-MM-DD)"`
}

type ContactOutput struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Company      string   `json:"company,omitempty"`
	Position     string   `json:"position,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Tags         []string `json:"tags"`
	FollowUpDate string   `json:"follow_up_date,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := h.session.AddContact(ctx, models.Contact{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Company:      input.Company,
		Position:     input.Position,
		Notes:        input.Notes,
		Tags:         input.Tags,
		FollowUpDate: input.FollowUpDate,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	h.session.LogActivity(ctx, "create", "contacts", "Created contact "+contact.FullName(), map[string]any{"contact_id": contact.ID})
	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search query (searches name, email and company)"`
	Tag    string `json:"tag,omitempty" jsonschema:"Only contacts carrying this tag"`
	SortBy string `json:"sort_by,omitempty" jsonschema:"Ordering: name, company or date"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	view := store.Reduce(h.session.State(), store.SetSearchQuery{Query: input.Query})
	view = store.Reduce(view, store.SetFilterTag{Tag: input.Tag})
	if input.SortBy != "" {
		key, err := models.ParseSortKey(input.SortBy)
		if err != nil {
			return nil, FindContactsOutput{}, err
		}
		view = store.Reduce(view, store.SetSortBy{SortBy: key})
	}

	contacts := store.VisibleContacts(view)
	total := len(contacts)
	if len(contacts) > limit {
		contacts = contacts[:limit]
	}

	result := make([]ContactOutput, len(contacts))
	for i, contact := range contacts {
		result[i] = contactToOutput(contact)
	}

	return nil, FindContactsOutput{Contacts: result, Total: total}, nil
}

type UpdateContactInput struct {
	ID           string   `json:"id" jsonschema:"Contact ID (required)"`
	FirstName    string   `json:"first_name,omitempty" jsonschema:"New first name"`
	LastName     string   `json:"last_name,omitempty" jsonschema:"New last name"`
	Email        string   `json:"email,omitempty" jsonschema:"New email"`
	Phone        string   `json:"phone,omitempty" jsonschema:"New phone"`
	Company      string   `json:"company,omitempty" jsonschema:"New company"`
	Position     string   `json:"position,omitempty" jsonschema:"New job title"`
	Notes        string   `json:"notes,omitempty" jsonschema:"New notes"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Replacement tag list"`
	FollowUpDate string   `json:"follow_up_date,omitempty" jsonschema:"New follow-up day (YYYY-MM-DD), or 'none' to clear"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contact, ok := store.FindContact(h.session.State(), input.ID)
	if !ok {
		return nil, ContactOutput{}, fmt.Errorf("contact %s: %w", input.ID, models.ErrNotFound)
	}

	setIfPresent(&contact.FirstName, input.FirstName)
	setIfPresent(&contact.LastName, input.LastName)
	setIfPresent(&contact.Email, input.Email)
	setIfPresent(&contact.Phone, input.Phone)
	setIfPresent(&contact.Company, input.Company)
	setIfPresent(&contact.Position, input.Position)
	setIfPresent(&contact.Notes, input.Notes)
	if input.Tags != nil {
		contact.Tags = input.Tags
	}
	switch input.FollowUpDate {
	case "":
	case "none":
		contact.FollowUpDate = ""
	default:
		contact.FollowUpDate = input.FollowUpDate
	}

	updated, err := h.session.UpdateContact(ctx, contact)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	h.session.LogActivity(ctx, "update", "contacts", "Updated contact "+updated.FullName(), map[string]any{"contact_id": updated.ID})
	return nil, contactToOutput(updated), nil
}

type DeleteInput struct {
	ID string `json:"id" jsonschema:"ID of the record to delete (required)"`
}

type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, request *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	name := store.ContactName(h.session.State(), input.ID)
	if err := h.session.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	h.session.LogActivity(ctx, "delete", "contacts", "Deleted contact "+name, map[string]any{"contact_id": input.ID})
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}

func setIfPresent(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func contactToOutput(contact models.Contact) ContactOutput {
	tags := contact.Tags
	if tags == nil {
		tags = []string{}
	}
	return ContactOutput{
		ID:           contact.ID,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		FullName:     contact.FullName(),
		Email:        contact.Email,
		Phone:        contact.Phone,
		Company:      contact.Company,
		Position:     contact.Position,
		Notes:        contact.Notes,
		Tags:         tags,
		FollowUpDate: dates.FormatForDateInput(contact.FollowUpDate),
		CreatedAt:    contact.CreatedAt.Format(time.RFC3339),
	}
}
