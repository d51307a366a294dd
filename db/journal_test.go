package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/harperreed/leadbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_RecordState(t *testing.T) {
	j := NewJournal(openTestDB(t))

	msg := "403 Forbidden"
	require.NoError(t, j.RecordState(models.ServiceSheets, models.SyncStatusError, &msg))
	require.NoError(t, j.RecordState(models.ServiceScript, models.SyncStatusIdle, nil))

	sheets, err := GetSyncState(j.db, models.ServiceSheets)
	require.NoError(t, err)
	require.NotNil(t, sheets)
	assert.Equal(t, models.SyncStatusError, sheets.Status)
	assert.Equal(t, msg, sheets.ErrorMessage)
	assert.Nil(t, sheets.LastSyncTime)

	script, err := GetSyncState(j.db, models.ServiceScript)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, script.Status)
	assert.NotNil(t, script.LastSyncTime)

	// A later failure keeps the last good sync time and replaces the error.
	require.NoError(t, j.RecordState(models.ServiceScript, models.SyncStatusError, &msg))
	script, err = GetSyncState(j.db, models.ServiceScript)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, script.Status)
	assert.NotNil(t, script.LastSyncTime)

	states, err := j.States()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, models.ServiceScript, states[0].Service)
}

func TestGetSyncState_Missing(t *testing.T) {
	state, err := GetSyncState(openTestDB(t), "nope")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestJournal_RecordEntryAndRecent(t *testing.T) {
	j := NewJournal(openTestDB(t))

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordEntry(models.SyncLog{
			SourceService: models.ServiceScript,
			Action:        "addClient",
			EntityID:      fmt.Sprintf("c%d", i),
			Outcome:       "ok",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := j.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c4", entries[0].EntityID, "newest first")
	assert.Equal(t, "c2", entries[2].EntityID)
	assert.NotEmpty(t, entries[0].ID, "id assigned")
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(4*time.Minute)))
}

func TestJournal_EntryWithoutEntity(t *testing.T) {
	j := NewJournal(openTestDB(t))

	require.NoError(t, j.RecordEntry(models.SyncLog{
		SourceService: models.ServiceSheets,
		Action:        "load",
		Outcome:       "failed",
		Detail:        "sheets: 403",
	}))

	entries, err := j.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].EntityID)
	assert.Equal(t, "sheets: 403", entries[0].Detail)
}
