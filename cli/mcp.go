// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand serves the CRM tools over stdio until the client disconnects.
func MCPCommand(ctx context.Context, session *crm.Session, logger *log.Logger) error {
	logger.Info("starting MCP server", "version", handlers.Version)
	return handlers.NewServer(session).Run(ctx, &mcp.StdioTransport{})
}
