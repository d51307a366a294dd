// ABOUTME: Database schema for the sync journal
// ABOUTME: Load state per source and a log of load attempts and write dispatches
package db

import (
	"database/sql"
)

// Contacts are never stored here; the journal only explains what the
// session did with the remote.
const schema = `
CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	source_service TEXT NOT NULL,
	action TEXT NOT NULL,
	entity_id TEXT,
	outcome TEXT NOT NULL,
	detail TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sync_log_created ON sync_log(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_sync_log_entity ON sync_log(entity_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
