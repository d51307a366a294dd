package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harperreed/leadbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScriptServer(t *testing.T, handler http.HandlerFunc) *ScriptGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &ScriptGateway{URL: srv.URL + "/exec", Client: srv.Client()}
}

func TestGetClients(t *testing.T) {
	gw := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ActionGetClients, r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`[
			{"id": "1", "name": "Robert Fox", "phone": 1234567, "status": "hot", "city": "Austin"},
			{"name": "", "status": ""}
		]`))
	})

	contacts, err := gw.GetClients(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "1234567", contacts[0].Phone)
	assert.Equal(t, models.StatusHot, contacts[0].Status)
	assert.Equal(t, "Austin", contacts[0].Location)

	assert.Equal(t, "2", contacts[1].ID)
	assert.Equal(t, models.StatusNewLead, contacts[1].Status)
	assert.Equal(t, "https://picsum.photos/seed/1/200", contacts[1].Avatar)
}

func TestDecodeClients_SynonymsAreDeterministic(t *testing.T) {
	body := []byte(`[{"name": "Robert Fox", "clientName": "Bob", "city": "Austin", "location": "Downtown"}]`)

	first, err := decodeClients(body)
	require.NoError(t, err)
	require.Len(t, first, 1)

	for i := 0; i < 50; i++ {
		again, err := decodeClients(body)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetClients_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		notJSON bool
	}{
		{"html body", http.StatusOK, "<!DOCTYPE html><html>Sign in</html>", true},
		{"error object", http.StatusOK, `{"error":"Sheet \"Leads\" not found"}`, false},
		{"object without error", http.StatusOK, `{"success":true}`, false},
		{"broken json", http.StatusOK, `[{"name":`, true},
		{"server error", http.StatusInternalServerError, `[]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			contacts, err := gw.GetClients(context.Background())
			require.Error(t, err)
			assert.Nil(t, contacts)

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, models.ServiceScript, srcErr.Source)
			assert.Equal(t, tt.notJSON, errors.Is(err, ErrNotJSON))
		})
	}
}

func TestGetClients_Placeholder(t *testing.T) {
	gw := &ScriptGateway{URL: "https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec"}
	assert.False(t, gw.Configured())

	_, err := gw.GetClients(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestWriteActions_Payload(t *testing.T) {
	var got []scriptRequest
	gw := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req scriptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	})

	ctx := context.Background()
	c := models.Contact{ID: "4", Name: "Ann", Status: models.StatusHot}

	require.NoError(t, gw.AddClient(ctx, models.Contact{Name: "New"}))
	require.NoError(t, gw.UpdateClient(ctx, c))
	require.NoError(t, gw.DeleteClient(ctx, "4"))

	require.Len(t, got, 3)
	assert.Equal(t, ActionAddClient, got[0].Action)
	require.NotNil(t, got[0].Data)
	assert.Equal(t, "New", got[0].Data.Name)

	assert.Equal(t, ActionUpdateClient, got[1].Action)
	assert.Equal(t, c, *got[1].Data)

	assert.Equal(t, ActionDeleteClient, got[2].Action)
	assert.Equal(t, "4", got[2].ID)
	assert.Nil(t, got[2].Data)
}

func TestWriteActions_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		remote  bool
		message string
	}{
		{"success", http.StatusOK, `{"success":true}`, false, ""},
		{"unreadable body counts as delivered", http.StatusOK, `<html>moved</html>`, false, ""},
		{"empty body counts as delivered", http.StatusOK, ``, false, ""},
		{"script error body", http.StatusOK, `{"error":"Client not found"}`, true, "Client not found"},
		{"non-2xx status", http.StatusInternalServerError, `oops`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newScriptServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := gw.UpdateClient(context.Background(), models.Contact{ID: "1"})
			if !tt.remote {
				assert.NoError(t, err)
				return
			}

			var remote *RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, ActionUpdateClient, remote.Action)
			assert.Equal(t, tt.status, remote.Status)
			assert.Equal(t, tt.message, remote.Message)
		})
	}
}

func TestWriteActions_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gw := &ScriptGateway{URL: url}
	err := gw.DeleteClient(context.Background(), "1")
	require.Error(t, err)

	var remote *RemoteError
	assert.False(t, errors.As(err, &remote))
}

func TestWriteActions_NotConfigured(t *testing.T) {
	gw := &ScriptGateway{}
	err := gw.AddClient(context.Background(), models.Contact{Name: "x"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
