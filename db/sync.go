// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Tracks per-source load status and the history of remote calls
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/leadbook/models"
)

const syncStateColumns = `service, last_sync_time, status, error_message, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncState(row rowScanner) (*models.SyncState, error) {
	var state models.SyncState
	var lastSyncTime sql.NullTime
	var status sql.NullString
	var errorMessage sql.NullString

	if err := row.Scan(
		&state.Service,
		&lastSyncTime,
		&status,
		&errorMessage,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	state.Status = status.String
	state.ErrorMessage = errorMessage.String

	return &state, nil
}

// GetSyncState retrieves the sync state for a service. Returns nil when the
// service has never been recorded.
func GetSyncState(db *sql.DB, service string) (*models.SyncState, error) {
	state, err := scanSyncState(db.QueryRow(`
		SELECT `+syncStateColumns+`
		FROM sync_state
		WHERE service = ?
	`, service))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	return state, nil
}

// UpdateSyncStatus updates the sync status for a service. An idle status
// also stamps last_sync_time.
func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}

	var lastSync sql.NullTime
	if status == models.SyncStatusIdle {
		lastSync = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO sync_state (service, last_sync_time, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = COALESCE(excluded.last_sync_time, sync_state.last_sync_time),
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, lastSync, status, errorMsgVal)

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// GetAllSyncStates retrieves the sync state for all services.
func GetAllSyncStates(db *sql.DB) ([]models.SyncState, error) {
	rows, err := db.Query(`
		SELECT ` + syncStateColumns + `
		FROM sync_state
		ORDER BY service
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []models.SyncState
	for rows.Next() {
		state, err := scanSyncState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}
		states = append(states, *state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync states: %w", err)
	}

	return states, nil
}

// CreateSyncLog stores one journal entry.
func CreateSyncLog(db *sql.DB, entry *models.SyncLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO sync_log (id, source_service, action, entity_id, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SourceService, entry.Action, entry.EntityID, entry.Outcome, entry.Detail, entry.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}

// RecentSyncLogs returns the newest entries first.
func RecentSyncLogs(db *sql.DB, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, source_service, action, entity_id, outcome, detail, created_at
		FROM sync_log
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.SyncLog
	for rows.Next() {
		var entry models.SyncLog
		var entityID, detail sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.SourceService,
			&entry.Action,
			&entityID,
			&entry.Outcome,
			&detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}

		entry.EntityID = entityID.String
		entry.Detail = detail.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync log: %w", err)
	}

	return entries, nil
}
