// ABOUTME: Local-first write path: mutates the contact list, then notifies the script endpoint
// ABOUTME: Remote dispatch runs in the background and never rolls back the local change
package sync

import (
	"context"
	"fmt"
	"log"
	"strings"
	gosync "sync"
	"time"

	"github.com/harperreed/leadbook/models"
	"github.com/oklog/ulid/v2"
)

// Writer applies mutations to the contact list and dispatches them remotely.
type Writer struct {
	list    *ContactList
	remote  ClientWriter
	journal Journal

	// persistStatus sends status changes to the remote as updateClient.
	persistStatus bool

	mu       gosync.Mutex
	idle     *gosync.Cond
	inflight int

	newID func() string
}

// NewWriter creates a writer over list. A nil remote keeps every change local.
func NewWriter(list *ContactList, remote ClientWriter, journal Journal, persistStatus bool) *Writer {
	w := &Writer{
		list:          list,
		remote:        remote,
		journal:       journal,
		persistStatus: persistStatus,
		newID:         func() string { return ulid.Make().String() },
	}
	w.idle = gosync.NewCond(&w.mu)
	return w
}

// Save stores c locally and dispatches it. A contact with an id replaces the
// entry with that id, or is prepended when none exists, and is sent as
// updateClient. A contact without an id gets a fresh one, is prepended, and
// is sent as addClient.
func (w *Writer) Save(ctx context.Context, c models.Contact) models.Contact {
	c.ID = strings.TrimSpace(c.ID)

	if c.ID != "" {
		ApplyDefaults(&c, 0)
		if !w.list.upsert(c) {
			log.Printf("[save] client %s not in list, prepended", c.ID)
		}
		w.dispatch(ctx, ActionUpdateClient, c.ID, func(ctx context.Context) error {
			return w.remote.UpdateClient(ctx, c)
		})
		return c
	}

	c.ID = w.freshID()
	ApplyDefaults(&c, w.list.Len())
	w.list.prepend(c)
	w.dispatch(ctx, ActionAddClient, c.ID, func(ctx context.Context) error {
		return w.remote.AddClient(ctx, c)
	})
	return c
}

// UpdateStatus changes one contact's status. It stays local unless status
// persistence is enabled.
func (w *Writer) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (models.Contact, error) {
	if !status.Valid() {
		return models.Contact{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	updated, ok := w.list.setStatus(id, status)
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if w.persistStatus {
		w.dispatch(ctx, ActionUpdateClient, id, func(ctx context.Context) error {
			return w.remote.UpdateClient(ctx, updated)
		})
	}
	return updated, nil
}

// Delete removes a contact locally and dispatches deleteClient.
func (w *Writer) Delete(ctx context.Context, id string) error {
	if _, ok := w.list.remove(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	w.dispatch(ctx, ActionDeleteClient, id, func(ctx context.Context) error {
		return w.remote.DeleteClient(ctx, id)
	})
	return nil
}

// Wait blocks until every in-flight dispatch has settled. Dispatches may
// start while it waits.
func (w *Writer) Wait() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.inflight > 0 {
		w.idle.Wait()
	}
}

func (w *Writer) begin() {
	w.mu.Lock()
	w.inflight++
	w.mu.Unlock()
}

func (w *Writer) done() {
	w.mu.Lock()
	w.inflight--
	if w.inflight == 0 {
		w.idle.Broadcast()
	}
	w.mu.Unlock()
}

func (w *Writer) freshID() string {
	for {
		id := w.newID()
		if id != "" && !w.list.has(id) {
			return id
		}
	}
}

// dispatch runs send in the background, detached from ctx cancellation.
func (w *Writer) dispatch(ctx context.Context, action, id string, send func(context.Context) error) {
	if w.remote == nil {
		log.Printf("[save] %s %s kept local: no script endpoint", action, id)
		w.record(action, id, fmt.Errorf("%w: no script endpoint", ErrNotConfigured))
		return
	}

	detached := context.WithoutCancel(ctx)
	w.begin()
	go func() {
		defer w.done()

		err := send(detached)
		if err != nil {
			log.Printf("[save] %s %s failed: %v", action, id, err)
		}
		w.record(action, id, err)
	}()
}

func (w *Writer) record(action, id string, err error) {
	if w.journal == nil {
		return
	}

	entry := models.SyncLog{
		SourceService: models.ServiceScript,
		Action:        action,
		EntityID:      id,
		Outcome:       "ok",
		CreatedAt:     time.Now(),
	}
	if err != nil {
		entry.Outcome = outcomeFor(err)
		entry.Detail = err.Error()
	}

	if jerr := w.journal.RecordEntry(entry); jerr != nil {
		log.Printf("[save] failed to journal %s: %v", action, jerr)
	}
}
