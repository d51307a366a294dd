// ABOUTME: Tests for MCP tool, resource, and prompt handlers
// ABOUTME: Runs handlers against a session backed by an in-memory grid
package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gridSource struct {
	grid sync.Grid
}

func (g gridSource) ReadGrid(ctx context.Context) (sync.Grid, error) {
	return g.grid, nil
}

type stubHistory struct {
	err error
}

func (h stubHistory) States() ([]models.SyncState, error) {
	when := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []models.SyncState{{Service: models.ServiceSheets, Status: models.SyncStatusIdle, LastSyncTime: &when}}, h.err
}

func (h stubHistory) Recent(limit int) ([]models.SyncLog, error) {
	return []models.SyncLog{{SourceService: models.ServiceSheets, Action: "load", Outcome: "ok"}}, h.err
}

type stubAssistant struct{}

func (stubAssistant) Ask(ctx context.Context, input string, contacts []models.Contact) string {
	return fmt.Sprintf("you have %d clients", len(contacts))
}

func setupSession(t *testing.T) *crm.Session {
	t.Helper()
	s := crm.NewSessionWithOptions(config.DefaultConfig(), nil, crm.Options{
		Primary: gridSource{grid: sync.Grid{
			{"Name", "Phone", "City", "Status", "Property Type", "Follow Up Date"},
			{"Robert Fox", "+1 234", "New York", "Hot", "Condo", "2099-01-02"},
			{"Jane Cooper", "+1 987", "Los Angeles", "Viewing", "Villa", ""},
			{"Cody Fisher", "+1 555", "Austin", "Closed", "", ""},
		}},
		Assistant: stubAssistant{},
	})
	t.Cleanup(s.Close)
	return s
}

func TestListClients(t *testing.T) {
	h := NewClientHandlers(setupSession(t))
	ctx := context.Background()

	_, out, err := h.ListClients(ctx, nil, ListClientsInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, 3, out.Total)

	_, out, err = h.ListClients(ctx, nil, ListClientsInput{Status: "hot"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Robert Fox", out.Clients[0].Name)

	_, out, err = h.ListClients(ctx, nil, ListClientsInput{Query: "austin", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)

	_, out, err = h.ListClients(ctx, nil, ListClientsInput{Query: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, out.Clients)
	assert.Empty(t, out.Clients)

	_, _, err = h.ListClients(ctx, nil, ListClientsInput{Status: "Lost"})
	assert.Error(t, err)
}

func TestGetClient(t *testing.T) {
	h := NewClientHandlers(setupSession(t))

	_, c, err := h.GetClient(context.Background(), nil, GetClientInput{ID: "2"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Cooper", c.Name)

	_, _, err = h.GetClient(context.Background(), nil, GetClientInput{ID: "99"})
	assert.Error(t, err)

	_, _, err = h.GetClient(context.Background(), nil, GetClientInput{})
	assert.Error(t, err)
}

func TestSaveClient(t *testing.T) {
	session := setupSession(t)
	h := NewClientHandlers(session)
	ctx := context.Background()

	_, _, err := h.SaveClient(ctx, nil, SaveClientInput{City: "Miami"})
	assert.Error(t, err, "new clients need a name")

	_, created, err := h.SaveClient(ctx, nil, SaveClientInput{Name: "Esther Howard", City: "Miami"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusNewLead, created.Status)
	assert.Equal(t, "Miami", created.Location)
	assert.NotEmpty(t, created.Avatar)
	assert.Len(t, session.Contacts(), 4)

	_, edited, err := h.SaveClient(ctx, nil, SaveClientInput{ID: "1", Notes: "Wants a view", Status: "negotiation"})
	require.NoError(t, err)
	assert.Equal(t, "Robert Fox", edited.Name, "omitted fields are kept")
	assert.Equal(t, "Wants a view", edited.Notes)
	assert.Equal(t, models.StatusNegotiation, edited.Status)

	_, _, err = h.SaveClient(ctx, nil, SaveClientInput{ID: "404", Name: "Ghost"})
	assert.Error(t, err)
}

func TestUpdateClientStatusAndDelete(t *testing.T) {
	session := setupSession(t)
	h := NewClientHandlers(session)
	ctx := context.Background()

	_, c, err := h.UpdateClientStatus(ctx, nil, UpdateClientStatusInput{ID: "2", Status: "Closed"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, c.Status)

	_, _, err = h.UpdateClientStatus(ctx, nil, UpdateClientStatusInput{ID: "2", Status: "Sold"})
	assert.Error(t, err)

	_, _, err = h.UpdateClientStatus(ctx, nil, UpdateClientStatusInput{ID: "2"})
	assert.Error(t, err)

	_, _, err = h.UpdateClientStatus(ctx, nil, UpdateClientStatusInput{ID: "404", Status: "Hot"})
	assert.True(t, errors.Is(err, sync.ErrNotFound))

	_, out, err := h.DeleteClient(ctx, nil, DeleteClientInput{ID: "2"})
	require.NoError(t, err)
	assert.Equal(t, "2", out.Deleted)
	assert.Len(t, session.Contacts(), 2)

	_, _, err = h.DeleteClient(ctx, nil, DeleteClientInput{ID: "2"})
	assert.True(t, errors.Is(err, sync.ErrNotFound))
}

func TestPipelineStatsAndGraph(t *testing.T) {
	h := NewVizHandlers(setupSession(t))
	h.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, stats, err := h.PipelineStats(ctx, nil, PipelineStatsInput{Render: true})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.HotLeads)
	assert.Equal(t, 1, stats.ByStatus["Viewing"])
	require.Len(t, stats.Upcoming, 1)
	assert.Equal(t, "2099-01-02", stats.Upcoming[0].Date)
	assert.Contains(t, stats.Dashboard, "LEADBOOK DASHBOARD")

	_, graph, err := h.GenerateGraph(ctx, nil, GenerateGraphInput{})
	require.NoError(t, err)
	assert.Contains(t, graph.DOTSource, "Robert Fox")
	assert.Positive(t, graph.EdgeCount)

	_, graph, err = h.GenerateGraph(ctx, nil, GenerateGraphInput{Status: "Hot"})
	require.NoError(t, err)
	assert.NotContains(t, graph.DOTSource, "Jane Cooper")
}

func TestAskAssistantAndSyncStatus(t *testing.T) {
	session := setupSession(t)
	ctx := context.Background()

	h := NewAssistantHandlers(session, stubHistory{})
	_, reply, err := h.AskAssistant(ctx, nil, AskAssistantInput{Question: "how many?"})
	require.NoError(t, err)
	assert.Equal(t, "you have 3 clients", reply.Reply)

	_, _, err = h.AskAssistant(ctx, nil, AskAssistantInput{Question: "  "})
	assert.Error(t, err)

	_, status, err := h.SyncStatus(ctx, nil, SyncStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "ready", status.State)
	assert.Equal(t, models.ServiceSheets, status.Source)
	assert.Equal(t, 3, status.Clients)
	require.Len(t, status.Services, 1)
	assert.Equal(t, "2026-03-10T09:00:00Z", status.Services[0].LastSyncTime)
	require.Len(t, status.Recent, 1)

	_, status, err = NewAssistantHandlers(session, nil).SyncStatus(ctx, nil, SyncStatusInput{Reload: true})
	require.NoError(t, err)
	assert.Equal(t, "ready", status.State)
	assert.Empty(t, status.Services)

	_, _, err = NewAssistantHandlers(session, stubHistory{err: errors.New("locked")}).SyncStatus(ctx, nil, SyncStatusInput{})
	assert.Error(t, err)
}

func TestReadResource(t *testing.T) {
	h := NewResourceHandlers(setupSession(t))
	ctx := context.Background()
	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("leadbook://clients")
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "Jane Cooper")

	res, err = read("leadbook://clients/3")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Cody Fisher")

	res, err = read("leadbook://pipeline")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "PIPELINE OVERVIEW")

	_, err = read("leadbook://clients/404")
	assert.Error(t, err)
	_, err = read("crm://clients")
	assert.Error(t, err)
	_, err = read("leadbook://deals")
	assert.Error(t, err)
}

func TestGetPrompt(t *testing.T) {
	h := NewPromptHandlers(setupSession(t))
	ctx := context.Background()
	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
	}
	text := func(res *mcp.GetPromptResult) string {
		require.Len(t, res.Messages, 1)
		content, ok := res.Messages[0].Content.(*mcp.TextContent)
		require.True(t, ok)
		return content.Text
	}

	res, err := get("client-summary", map[string]string{"client_id": "1"})
	require.NoError(t, err)
	assert.Contains(t, text(res), "Robert Fox")
	assert.Contains(t, text(res), "Property type: Condo")

	_, err = get("client-summary", nil)
	assert.Error(t, err)

	res, err = get("follow-up-plan", nil)
	require.NoError(t, err)
	assert.Contains(t, text(res), "with Robert Fox")

	res, err = get("pipeline-review", nil)
	require.NoError(t, err)
	assert.Contains(t, text(res), "Current CRM Database (3 clients)")

	_, err = get("deal-analysis", nil)
	assert.Error(t, err)
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer(setupSession(t), nil, "test"))
}
