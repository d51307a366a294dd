// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to clients and the pipeline via leadbook:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "leadbook://"

type ResourceHandlers struct {
	session *crm.Session
}

func NewResourceHandlers(session *crm.Session) *ResourceHandlers {
	return &ResourceHandlers{session: session}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	h.session.Load(ctx)

	path := strings.TrimPrefix(uri, resourceScheme)
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "clients":
		if len(parts) == 1 || parts[1] == "" {
			return jsonResource(uri, h.session.Contacts())
		}
		contact, ok := h.session.Contact(parts[1])
		if !ok {
			return nil, fmt.Errorf("client not found: %s", parts[1])
		}
		return jsonResource(uri, contact)

	case "pipeline":
		stats := viz.ComputeStats(h.session.Contacts(), time.Now())
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     viz.RenderDashboard(stats),
			},
		}}, nil

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
