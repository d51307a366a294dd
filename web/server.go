// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the pipeline dashboard and a JSON API over the session's client list
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
	"github.com/harperreed/leadbook/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	session   *crm.Session
	history   crm.History
	templates *template.Template
	now       func() time.Time
}

// NewServer builds the web server. history may be nil.
func NewServer(session *crm.Session, history crm.History) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
		"width": func(count, total int) int {
			if total == 0 {
				return 0
			}
			return count * 100 / total
		},
		"statusClass": func(s models.LeadStatus) string {
			return strings.ToLower(strings.ReplaceAll(string(s), " ", "-"))
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		session:   session,
		history:   history,
		templates: tmpl,
		now:       time.Now,
	}, nil
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleDashboard)
	r.Post("/reload", s.handleReloadForm)
	r.Get("/graph", s.handleGraph)

	r.Route("/api", func(r chi.Router) {
		r.Get("/clients", s.listClients)
		r.Post("/clients", s.createClient)
		r.Get("/clients/{id}", s.getClient)
		r.Put("/clients/{id}", s.updateClient)
		r.Patch("/clients/{id}/status", s.updateStatus)
		r.Delete("/clients/{id}", s.deleteClient)
		r.Get("/stats", s.stats)
		r.Post("/assistant", s.ask)
		r.Get("/sync", s.syncStatus)
		r.Post("/reload", s.reload)
	})

	return r
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res := s.session.Load(r.Context())

	query := r.URL.Query().Get("q")
	var status models.LeadStatus
	if parsed, ok := models.ParseLeadStatus(r.URL.Query().Get("status")); ok {
		status = parsed
	}

	all := s.session.Contacts()
	stats := viz.ComputeStats(all, s.now())

	type stage struct {
		Status models.LeadStatus
		Count  int
	}
	stages := make([]stage, len(models.LeadStatuses))
	for i, st := range models.LeadStatuses {
		stages[i] = stage{Status: st, Count: stats.ByStatus[st]}
	}

	data := map[string]any{
		"Title":      "Dashboard",
		"Result":     res,
		"Degraded":   res.State == sync.StateDegraded,
		"Stats":      stats,
		"Stages":     stages,
		"Statuses":   models.LeadStatuses,
		"Clients":    s.session.Search(query, status),
		"Query":      query,
		"StatusSel":  status,
		"TotalCount": len(all),
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleReloadForm(w http.ResponseWriter, r *http.Request) {
	s.session.Reload(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.session.Load(r.Context())

	dot, err := viz.GeneratePipelineGraph(r.Context(), s.session.Contacts())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	s.session.Load(r.Context())

	var status models.LeadStatus
	if label := r.URL.Query().Get("status"); label != "" {
		parsed, ok := models.ParseLeadStatus(label)
		if !ok {
			writeError(w, http.StatusBadRequest, ErrInvalidStatus, fmt.Sprintf("unknown status %q", label))
			return
		}
		status = parsed
	}

	clients := s.session.Search(r.URL.Query().Get("q"), status)
	if clients == nil {
		clients = []models.Contact{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"clients": clients,
		"count":   len(clients),
	})
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	s.session.Load(r.Context())

	id := chi.URLParam(r, "id")
	c, ok := s.session.Contact(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrNotFound, "client not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func decodeClient(r *http.Request) (models.Contact, error) {
	var c models.Contact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	c, err := decodeClient(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "request body must be a client object")
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		writeError(w, http.StatusBadRequest, ErrMissingField, "name is required")
		return
	}

	s.session.Load(r.Context())
	c.ID = ""
	writeJSON(w, http.StatusCreated, s.session.Save(r.Context(), c))
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	c, err := decodeClient(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "request body must be a client object")
		return
	}

	s.session.Load(r.Context())
	id := chi.URLParam(r, "id")
	if _, ok := s.session.Contact(id); !ok {
		writeError(w, http.StatusNotFound, ErrNotFound, "client not found: "+id)
		return
	}

	c.ID = id
	writeJSON(w, http.StatusOK, s.session.Save(r.Context(), c))
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "request body must be {\"status\": ...}")
		return
	}
	status, ok := models.ParseLeadStatus(body.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrInvalidStatus, fmt.Sprintf("unknown status %q", body.Status))
		return
	}

	s.session.Load(r.Context())
	c, err := s.session.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if errors.Is(err, sync.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidStatus, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	s.session.Load(r.Context())

	err := s.session.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sync.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.session.Load(r.Context())

	stats := viz.ComputeStats(s.session.Contacts(), s.now())
	byStatus := make(map[string]int, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":       stats.Total,
		"by_status":   byStatus,
		"hot_leads":   stats.HotLeads,
		"closed":      stats.Closed,
		"closed_rate": stats.ClosedRate,
		"top_cities":  stats.TopCities,
		"property":    stats.PropertyMix,
		"due_today":   stats.DueToday,
	})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "request body must be {\"message\": ...}")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeError(w, http.StatusBadRequest, ErrMissingField, "message is required")
		return
	}

	s.session.Load(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"reply": s.session.Ask(r.Context(), body.Message)})
}

func (s *Server) syncStatus(w http.ResponseWriter, r *http.Request) {
	res := s.session.Load(r.Context())

	resp := map[string]any{
		"state":      res.State.String(),
		"source":     res.Source,
		"clients":    len(s.session.Contacts()),
		"diagnostic": res.Diagnostic,
	}

	if s.history != nil {
		states, err := s.history.States()
		if err != nil {
			writeError(w, http.StatusInternalServerError, ErrInternal, err.Error())
			return
		}
		recent, err := s.history.Recent(20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, ErrInternal, err.Error())
			return
		}
		resp["services"] = states
		resp["recent"] = recent
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	res := s.session.Reload(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"state":      res.State.String(),
		"source":     res.Source,
		"clients":    len(s.session.Contacts()),
		"diagnostic": res.Diagnostic,
	})
}
