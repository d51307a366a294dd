// ABOUTME: SQLite-backed journal recording load outcomes and write dispatches
// ABOUTME: Satisfies the sync package's Journal interface
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/leadbook/models"
)

// Journal writes sync diagnostics to the database.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// RecordState upserts the status of one source.
func (j *Journal) RecordState(service, status string, errMsg *string) error {
	return UpdateSyncStatus(j.db, service, status, errMsg)
}

// RecordEntry appends a log entry, assigning an id when missing.
func (j *Journal) RecordEntry(entry models.SyncLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return CreateSyncLog(j.db, &entry)
}

// States returns every recorded source state.
func (j *Journal) States() ([]models.SyncState, error) {
	return GetAllSyncStates(j.db)
}

// Recent returns the newest log entries.
func (j *Journal) Recent(limit int) ([]models.SyncLog, error) {
	return RecentSyncLogs(j.db, limit)
}
