// ABOUTME: Error values shared by the spreadsheet sources and coordinators
// ABOUTME: Sentinels for configuration and payload problems, typed errors for remote outcomes
package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means a source is missing its id, credential, or URL.
	ErrNotConfigured = errors.New("source not configured")

	// ErrNoData means the source answered but had no data rows.
	ErrNoData = errors.New("no data rows")

	// ErrNotJSON means a body expected to be JSON was not.
	ErrNotJSON = errors.New("response is not JSON")

	// ErrInvalidTransition means the load state machine was driven out of order.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotFound means no contact in the local list has the given id.
	ErrNotFound = errors.New("client not found")

	// ErrInvalidStatus means a status outside the recognized set.
	ErrInvalidStatus = errors.New("invalid lead status")
)

// SourceError reports a failed read from one source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// RemoteError is a write the script endpoint explicitly refused.
type RemoteError struct {
	Action  string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected with status %d", e.Action, e.Status)
	}
	return fmt.Sprintf("%s rejected: %s", e.Action, e.Message)
}
