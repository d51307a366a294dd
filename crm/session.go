// ABOUTME: Session owning the contact list for one run of the app
// ABOUTME: Wires config into the load coordinator, write coordinator, and assistant
package crm

import (
	"context"
	gosync "sync"

	"github.com/harperreed/leadbook/assistant"
	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
)

// Session is the single owner of the contact list. Front ends read through
// it and mutate only through Save, UpdateStatus and Delete.
type Session struct {
	cfg       *config.Config
	journal   sync.Journal
	primary   sync.TabularSource
	fallback  sync.ClientSource
	assistant assistant.Assistant

	list   *sync.ContactList
	writer *sync.Writer

	mu     gosync.Mutex
	coord  *sync.Coordinator
	result *sync.Result
}

// Options swap the session's collaborators. Zero values use the config.
type Options struct {
	Primary   sync.TabularSource
	Fallback  sync.ClientSource
	Remote    sync.ClientWriter
	Assistant assistant.Assistant
}

// NewSession builds a session from config. journal may be nil.
func NewSession(ctx context.Context, cfg *config.Config, journal sync.Journal) *Session {
	gateway := sync.NewScriptGateway(cfg)
	return NewSessionWithOptions(cfg, journal, Options{
		Primary:   sync.NewSheetsReader(ctx, cfg),
		Fallback:  gateway,
		Remote:    gateway,
		Assistant: assistant.New(cfg),
	})
}

// NewSessionWithOptions builds a session around explicit collaborators.
func NewSessionWithOptions(cfg *config.Config, journal sync.Journal, opts Options) *Session {
	if opts.Assistant == nil {
		opts.Assistant = assistant.Unconfigured{}
	}

	list := sync.NewContactList()
	s := &Session{
		cfg:       cfg,
		journal:   journal,
		primary:   opts.Primary,
		fallback:  opts.Fallback,
		assistant: opts.Assistant,
		list:      list,
		writer:    sync.NewWriter(list, opts.Remote, journal, cfg.PersistStatusChanges),
	}
	s.coord = s.newCoordinator()
	return s
}

func (s *Session) newCoordinator() *sync.Coordinator {
	return sync.NewCoordinator(s.primary, s.fallback, s.journal).Into(s.list)
}

// Config returns the session's config.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Load fetches contacts once. Later calls return the settled result.
func (s *Session) Load(ctx context.Context) sync.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Reload discards the settled load and runs the fallback chain again from
// Idle. Pending writes finish first so they are not lost to the replace.
func (s *Session) Reload(ctx context.Context) sync.Result {
	s.writer.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.coord = s.newCoordinator()
	s.result = nil
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) sync.Result {
	if s.result != nil {
		return *s.result
	}

	// The load settles once per session, so a caller hanging up must not fail it.
	res := s.coord.Load(context.WithoutCancel(ctx))
	s.result = &res
	return res
}

// Result returns the settled load, or nil before the first Load.
func (s *Session) Result() *sync.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	res := *s.result
	return &res
}

// Contacts returns a copy of the list.
func (s *Session) Contacts() []models.Contact {
	return s.list.All()
}

// Contact finds one contact by id.
func (s *Session) Contact(id string) (models.Contact, bool) {
	return s.list.Get(id)
}

// Search filters by free text and optional status.
func (s *Session) Search(query string, status models.LeadStatus) []models.Contact {
	return s.list.Filter(query, status)
}

// Save creates or edits a contact.
func (s *Session) Save(ctx context.Context, c models.Contact) models.Contact {
	return s.writer.Save(ctx, c)
}

// UpdateStatus moves a contact to another pipeline stage.
func (s *Session) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (models.Contact, error) {
	return s.writer.UpdateStatus(ctx, id, status)
}

// Delete removes a contact.
func (s *Session) Delete(ctx context.Context, id string) error {
	return s.writer.Delete(ctx, id)
}

// Ask forwards a question to the assistant with the current list.
func (s *Session) Ask(ctx context.Context, input string) string {
	return s.assistant.Ask(ctx, input, s.list.All())
}

// Close waits for in-flight remote writes.
func (s *Session) Close() {
	s.writer.Wait()
}

// History reads the diagnostic journal. *db.Journal satisfies it.
type History interface {
	States() ([]models.SyncState, error)
	Recent(limit int) ([]models.SyncLog, error)
}
