// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to contacts, interactions and settings via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	session *crm.Session
}

func NewResourceHandlers(session *crm.Session) *ResourceHandlers {
	return &ResourceHandlers{session: session}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")
	state := h.session.State()

	switch parts[0] {
	case "contacts":
		if len(parts) == 1 {
			return jsonResource(uri, state.Contacts)
		}
		contact, ok := store.FindContact(state, parts[1])
		if !ok {
			return nil, fmt.Errorf("contact %s: %w", parts[1], models.ErrNotFound)
		}
		return jsonResource(uri, struct {
			models.Contact
			Interactions []models.Interaction `json:"interactions"`
		}{contact, store.ContactInteractions(state, contact.ID)})

	case "interactions":
		return jsonResource(uri, state.Interactions)

	case "settings":
		return jsonResource(uri, h.session.Settings())

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
