// ABOUTME: MCP server assembly
// ABOUTME: Registers client tools, analytics, resources, and prompts on one server
package handlers

import (
	"github.com/harperreed/leadbook/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the leadbook MCP server. history may be nil.
func NewServer(session *crm.Session, history crm.History, version string) *mcp.Server {
	clientHandlers := NewClientHandlers(session)
	vizHandlers := NewVizHandlers(session)
	assistantHandlers := NewAssistantHandlers(session, history)
	resourceHandlers := NewResourceHandlers(session)
	promptHandlers := NewPromptHandlers(session)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "leadbook",
		Version: version,
	}, nil)

	// Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_clients",
		Description: "List clients, optionally filtered by search text and lead status",
	}, clientHandlers.ListClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_client",
		Description: "Get one client by ID",
	}, clientHandlers.GetClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_client",
		Description: "Create a client, or update an existing one when id is given. The change is applied locally and sent to the spreadsheet in the background",
	}, clientHandlers.SaveClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_client_status",
		Description: "Move a client to another lead status",
	}, clientHandlers.UpdateClientStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_client",
		Description: "Delete a client locally and from the spreadsheet",
	}, clientHandlers.DeleteClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_stats",
		Description: "Counts per lead status, hot leads, closed rate, top cities and upcoming follow-ups",
	}, vizHandlers.PipelineStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz pipeline graph with every client attached to its stage",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_assistant",
		Description: "Ask the CRM assistant a question about the client list",
	}, assistantHandlers.AskAssistant)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Show where the client list was loaded from, optionally reloading it, plus the sync journal",
	}, assistantHandlers.SyncStatus)

	// Resources
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "clients",
		Name:        "clients",
		Description: "All clients as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "clients/{id}",
		Name:        "client",
		Description: "One client as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "pipeline",
		Name:        "pipeline",
		Description: "Pipeline dashboard",
		MIMEType:    "text/plain",
	}, resourceHandlers.ReadResource)

	// Prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "client-summary",
		Description: "Summarize a client and suggest the next step",
		Arguments: []*mcp.PromptArgument{
			{Name: "client_id", Description: "Client ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-plan",
		Description: "Plan upcoming follow-ups",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Review where leads are stalling",
	}, promptHandlers.GetPrompt)

	return server
}
