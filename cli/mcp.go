// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for desktop assistant integration
package cli

import (
	"context"
	"log"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio. history may be nil.
func MCPCommand(session *crm.Session, history crm.History, version string) error {
	log.Println("Starting leadbook MCP server...")

	server := handlers.NewServer(session, history, version)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
