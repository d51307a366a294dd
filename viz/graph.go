// ABOUTME: Graphviz rendering of the lead pipeline
// ABOUTME: Draws status stages in order with each contact attached to its stage
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/leadbook/models"
)

var statusColors = map[models.LeadStatus]string{
	models.StatusNewLead:      "lightgray",
	models.StatusWarmProspect: "khaki",
	models.StatusHot:          "salmon",
	models.StatusFollowUp:     "lightyellow",
	models.StatusViewing:      "lightblue",
	models.StatusNegotiation:  "plum",
	models.StatusClosed:       "lightgreen",
}

// GeneratePipelineGraph renders the pipeline as xdot source.
func GeneratePipelineGraph(ctx context.Context, contacts []models.Contact) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Lead Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	counts := make(map[models.LeadStatus]int)
	for _, c := range contacts {
		counts[c.Status]++
	}

	// Stage nodes chained in pipeline order
	stages := make(map[models.LeadStatus]*cgraph.Node)
	var prev *cgraph.Node
	for i, status := range models.LeadStatuses {
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%d)", status, counts[status]))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(statusColors[status])
		stages[status] = node

		if prev != nil {
			edge, err := graph.CreateEdgeByName(fmt.Sprintf("next_%d", i), prev, node)
			if err != nil {
				return "", fmt.Errorf("failed to create stage edge: %w", err)
			}
			edge.SetStyle("bold")
		}
		prev = node
	}

	for i, c := range contacts {
		stage, ok := stages[c.Status]
		if !ok {
			stage = stages[models.StatusNewLead]
		}

		node, err := graph.CreateNodeByName(fmt.Sprintf("contact_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		label := c.Name
		if c.City != "" {
			label = fmt.Sprintf("%s\n%s", c.Name, c.City)
		}
		node.SetLabel(label)
		node.SetShape("ellipse")

		edge, err := graph.CreateEdgeByName(fmt.Sprintf("in_%d", i), node, stage)
		if err != nil {
			return "", fmt.Errorf("failed to create contact edge: %w", err)
		}
		edge.SetStyle("dashed")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
