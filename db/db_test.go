package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "journal.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tables, got %d", count)
	}

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	dbPath := "/invalid/nonexistent/path/that/cannot/be/created/journal.db"

	_, err := OpenDatabase(dbPath)
	if err == nil {
		t.Errorf("Expected error for invalid path, but OpenDatabase succeeded")
	}
}

func TestOpenDatabaseTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("Initial OpenDatabase failed: %v", err)
	}
	_ = db.Close()

	// CREATE ... IF NOT EXISTS must tolerate an existing schema
	db, err = OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase should handle re-initialization gracefully, but got error: %v", err)
	}
	defer func() { _ = db.Close() }()
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	if !strings.HasSuffix(path, filepath.Join("leadbook", "journal.db")) {
		t.Errorf("unexpected default path %s", path)
	}
}
