package sync

import (
	"context"
	gosync "sync"

	"github.com/harperreed/leadbook/models"
)

// callLog records source calls in order across fakes.
type callLog struct {
	mu    gosync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeTabular struct {
	log  *callLog
	grid Grid
	err  error
}

func (f *fakeTabular) ReadGrid(ctx context.Context) (Grid, error) {
	f.log.add("primary")
	return f.grid, f.err
}

type fakeClients struct {
	log      *callLog
	contacts []models.Contact
	err      error
}

func (f *fakeClients) GetClients(ctx context.Context) ([]models.Contact, error) {
	f.log.add("fallback")
	return f.contacts, f.err
}

type remoteCall struct {
	action  string
	contact models.Contact
	id      string
	ctxErr  error
}

type fakeRemote struct {
	mu    gosync.Mutex
	calls []remoteCall
	err   error
}

func (f *fakeRemote) record(c remoteCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeRemote) AddClient(ctx context.Context, c models.Contact) error {
	return f.record(remoteCall{action: ActionAddClient, contact: c, id: c.ID, ctxErr: ctx.Err()})
}

func (f *fakeRemote) UpdateClient(ctx context.Context, c models.Contact) error {
	return f.record(remoteCall{action: ActionUpdateClient, contact: c, id: c.ID, ctxErr: ctx.Err()})
}

func (f *fakeRemote) DeleteClient(ctx context.Context, id string) error {
	return f.record(remoteCall{action: ActionDeleteClient, id: id, ctxErr: ctx.Err()})
}

func (f *fakeRemote) Calls() []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remoteCall(nil), f.calls...)
}

type fakeJournal struct {
	mu      gosync.Mutex
	states  map[string]string
	entries []models.SyncLog
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{states: map[string]string{}}
}

func (j *fakeJournal) RecordState(service, status string, errMsg *string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.states[service] = status
	return nil
}

func (j *fakeJournal) RecordEntry(entry models.SyncLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

func (j *fakeJournal) Entries() []models.SyncLog {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.SyncLog(nil), j.entries...)
}
