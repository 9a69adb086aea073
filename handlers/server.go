// ABOUTME: MCP server assembly
// ABOUTME: Registers every tool, resource and prompt against one session
package handlers

import (
	"github.com/harperreed/solocrm/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// NewServer builds an MCP server whose tools operate on session.
func NewServer(session *crm.Session) *mcp.Server {
	contactHandlers := NewContactHandlers(session)
	interactionHandlers := NewInteractionHandlers(session)
	dashboardHandlers := NewDashboardHandlers(session)
	resourceHandlers := NewResourceHandlers(session)
	promptHandlers := NewPromptHandlers(session)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "solocrm",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email or company, optionally filtered by tag",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact. Its interactions are kept",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log an email, call, meeting or other interaction with a contact",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_interactions",
		Description: "Search logged interactions by contact, type or notes",
	}, interactionHandlers.FindInteractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_interaction",
		Description: "Update a logged interaction",
	}, interactionHandlers.UpdateInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_interaction",
		Description: "Delete a logged interaction",
	}, interactionHandlers.DeleteInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Summary statistics: totals, follow-ups due, interactions by type, month and contact",
	}, dashboardHandlers.GetDashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact_graph",
		Description: "GraphViz DOT source of contacts and the companies they work at",
	}, dashboardHandlers.GetContactGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_setting",
		Description: "Change a user setting (timezone, theme or notifications)",
	}, dashboardHandlers.UpdateSetting)

	for _, r := range []*mcp.Resource{
		{URI: "crm://contacts", Name: "contacts", Description: "All contacts", MIMEType: "application/json"},
		{URI: "crm://interactions", Name: "interactions", Description: "All interactions", MIMEType: "application/json"},
		{URI: "crm://settings", Name: "settings", Description: "Current user settings", MIMEType: "application/json"},
	} {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "One contact with its interactions",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize a contact and their interaction history",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Draft follow-ups for contacts that are due",
	}, promptHandlers.GetPrompt)

	return server
}
