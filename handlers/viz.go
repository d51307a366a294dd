// ABOUTME: Pipeline analytics and GraphViz MCP handlers
// ABOUTME: Provides pipeline_stats and generate_graph tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	session *crm.Session
	now     func() time.Time
}

func NewVizHandlers(session *crm.Session) *VizHandlers {
	return &VizHandlers{session: session, now: time.Now}
}

type PipelineStatsInput struct {
	Render bool `json:"render,omitempty" jsonschema:"Include the ASCII dashboard text"`
}

type PipelineStatsOutput struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	HotLeads   int            `json:"hot_leads"`
	ClosedRate float64        `json:"closed_rate"`
	TopCities  []viz.Bucket   `json:"top_cities"`
	Upcoming   []FollowUpItem `json:"upcoming_follow_ups"`
	Dashboard  string         `json:"dashboard,omitempty"`
}

type FollowUpItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
	Type string `json:"type,omitempty"`
}

func (h *VizHandlers) PipelineStats(ctx context.Context, request *mcp.CallToolRequest, input PipelineStatsInput) (*mcp.CallToolResult, PipelineStatsOutput, error) {
	h.session.Load(ctx)
	stats := viz.ComputeStats(h.session.Contacts(), h.now())

	out := PipelineStatsOutput{
		Total:      stats.Total,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		HotLeads:   stats.HotLeads,
		ClosedRate: stats.ClosedRate,
		TopCities:  stats.TopCities,
		Upcoming:   make([]FollowUpItem, 0, len(stats.Upcoming)),
	}
	for status, count := range stats.ByStatus {
		out.ByStatus[string(status)] = count
	}
	for _, f := range stats.Upcoming {
		out.Upcoming = append(out.Upcoming, FollowUpItem{
			ID:   f.ContactID,
			Name: f.Name,
			Date: f.Date.Format("2006-01-02"),
			Time: f.Time,
			Type: f.Type,
		})
	}
	if input.Render {
		out.Dashboard = viz.RenderDashboard(stats)
	}

	return nil, out, nil
}

type GenerateGraphInput struct {
	Status string `json:"status,omitempty" jsonschema:"Only draw clients in this lead status"`
}

type GenerateGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	h.session.Load(ctx)

	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}
	contacts := h.session.Search("", status)

	dot, err := viz.GeneratePipelineGraph(ctx, contacts)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
