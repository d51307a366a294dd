// ABOUTME: Load state machine choosing between the Sheets API and the script fallback
// ABOUTME: Runs primary then fallback strictly in order and settles in Ready or Degraded
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/harperreed/leadbook/models"
)

// State is a load lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateFetchingPrimary
	StateFetchingFallback
	StateReady
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingPrimary:
		return "fetching-primary"
	case StateFetchingFallback:
		return "fetching-fallback"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateReady || s == StateDegraded
}

// Trigger drives a State transition.
type Trigger int

const (
	TriggerLoad Trigger = iota
	TriggerPrimarySucceeded
	TriggerPrimaryFailed
	TriggerFallbackSucceeded
	TriggerFallbackFailed
)

func (t Trigger) String() string {
	switch t {
	case TriggerLoad:
		return "load"
	case TriggerPrimarySucceeded:
		return "primary-succeeded"
	case TriggerPrimaryFailed:
		return "primary-failed"
	case TriggerFallbackSucceeded:
		return "fallback-succeeded"
	case TriggerFallbackFailed:
		return "fallback-failed"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// Transition returns the state reached from s on t.
func Transition(s State, t Trigger) (State, error) {
	switch {
	case s == StateIdle && t == TriggerLoad:
		return StateFetchingPrimary, nil
	case s == StateFetchingPrimary && t == TriggerPrimarySucceeded:
		return StateReady, nil
	case s == StateFetchingPrimary && t == TriggerPrimaryFailed:
		return StateFetchingFallback, nil
	case s == StateFetchingFallback && t == TriggerFallbackSucceeded:
		return StateReady, nil
	case s == StateFetchingFallback && t == TriggerFallbackFailed:
		return StateDegraded, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, t)
}

// DegradedMessage is the only diagnostic shown to end users.
const DegradedMessage = "Could not load clients from Google Sheets. Check your connection settings and reload."

// Result is a settled load.
type Result struct {
	State    State
	Source   string
	Contacts []models.Contact
	// Diagnostic is set only when degraded.
	Diagnostic string
	// Trace holds the developer-facing reasons behind the outcome.
	Trace []string
}

// Journal records load and write outcomes for later diagnosis.
type Journal interface {
	RecordState(service, status string, errMsg *string) error
	RecordEntry(entry models.SyncLog) error
}

// Coordinator loads the contact list once per session.
type Coordinator struct {
	primary  TabularSource
	fallback ClientSource
	journal  Journal
	list     *ContactList

	mu     gosync.Mutex
	state  State
	result *Result
}

// NewCoordinator creates a coordinator. Any argument may be nil: a nil
// source counts as unconfigured, a nil journal records nothing.
func NewCoordinator(primary TabularSource, fallback ClientSource, journal Journal) *Coordinator {
	return &Coordinator{primary: primary, fallback: fallback, journal: journal}
}

// Into makes the settled load replace list wholesale: the mapped contacts
// on Ready, an empty list on Degraded.
func (c *Coordinator) Into(list *ContactList) *Coordinator {
	c.list = list
	return c
}

// State returns the current lifecycle stage.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load runs the fallback chain the first time it is called. Later calls
// return the settled result without touching the network.
func (c *Coordinator) Load(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil {
		return *c.result
	}

	res := c.run(ctx)
	if c.list != nil {
		c.list.replaceAll(res.Contacts)
	}
	c.result = &res
	return res
}

func (c *Coordinator) run(ctx context.Context) Result {
	var trace []string
	note := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("[load] %s", msg)
		trace = append(trace, msg)
	}

	c.fire(TriggerLoad)

	contacts, err := c.readPrimary(ctx)
	if err == nil {
		c.fire(TriggerPrimarySucceeded)
		note("loaded %d clients from %s", len(contacts), models.ServiceSheets)
		c.record(models.ServiceSheets, nil, len(contacts))
		return c.settle(models.ServiceSheets, contacts, trace)
	}
	c.fire(TriggerPrimaryFailed)
	note("%s unavailable: %v", models.ServiceSheets, err)
	c.record(models.ServiceSheets, err, 0)

	contacts, err = c.readFallback(ctx)
	if err == nil {
		c.fire(TriggerFallbackSucceeded)
		note("loaded %d clients from %s", len(contacts), models.ServiceScript)
		c.record(models.ServiceScript, nil, len(contacts))
		return c.settle(models.ServiceScript, contacts, trace)
	}
	c.fire(TriggerFallbackFailed)
	note("%s unavailable: %v", models.ServiceScript, err)
	c.record(models.ServiceScript, err, 0)

	note("no data source available")
	return Result{
		State:      c.state,
		Contacts:   []models.Contact{},
		Diagnostic: DegradedMessage,
		Trace:      trace,
	}
}

func (c *Coordinator) settle(source string, contacts []models.Contact, trace []string) Result {
	ensureUniqueIDs(contacts)
	return Result{State: c.state, Source: source, Contacts: contacts, Trace: trace}
}

func (c *Coordinator) readPrimary(ctx context.Context) ([]models.Contact, error) {
	if c.primary == nil {
		return nil, fmt.Errorf("%w: no reader", ErrNotConfigured)
	}
	grid, err := c.primary.ReadGrid(ctx)
	if err != nil {
		return nil, err
	}
	if len(grid.DataRows()) == 0 {
		return nil, ErrNoData
	}
	return grid.Contacts(), nil
}

func (c *Coordinator) readFallback(ctx context.Context) ([]models.Contact, error) {
	if c.fallback == nil {
		return nil, fmt.Errorf("%w: no gateway", ErrNotConfigured)
	}
	return c.fallback.GetClients(ctx)
}

func (c *Coordinator) fire(t Trigger) {
	next, err := Transition(c.state, t)
	if err != nil {
		log.Printf("[load] %v", err)
		return
	}
	c.state = next
}

func (c *Coordinator) record(service string, err error, count int) {
	if c.journal == nil {
		return
	}

	entry := models.SyncLog{
		SourceService: service,
		Action:        "load",
		Outcome:       "ok",
		Detail:        fmt.Sprintf("%d clients", count),
		CreatedAt:     time.Now(),
	}
	status := models.SyncStatusIdle
	var errMsg *string
	if err != nil {
		entry.Outcome = outcomeFor(err)
		entry.Detail = err.Error()
		status = models.SyncStatusError
		msg := err.Error()
		errMsg = &msg
	}

	if jerr := c.journal.RecordState(service, status, errMsg); jerr != nil {
		log.Printf("[load] failed to journal %s state: %v", service, jerr)
	}
	if jerr := c.journal.RecordEntry(entry); jerr != nil {
		log.Printf("[load] failed to journal %s entry: %v", service, jerr)
	}
}

// outcomeFor classifies an error for the journal.
func outcomeFor(err error) string {
	var remote *RemoteError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "unconfigured"
	case errors.Is(err, ErrNoData):
		return "empty"
	case errors.As(err, &remote):
		return "rejected"
	}
	return "failed"
}
