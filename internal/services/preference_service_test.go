package services

import (
	"errors"
	"testing"

	"huddle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefColumns() []string {
	return []string{"username", "cadence", "chat_notifications", "event_updates"}
}

func TestResolveReturnsStoredPreference(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "notification_preference"`).
		WillReturnRows(sqlmock.NewRows(prefColumns()).AddRow("alice", "daily", true, false))

	pref := NewPreferenceService(db).Resolve("alice")

	assert.Equal(t, models.CadenceDaily, pref.Cadence)
	assert.True(t, pref.ChatNotifications)
	assert.False(t, pref.EventUpdates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveDefaultsWhenNoRowExists(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "notification_preference"`).
		WillReturnRows(sqlmock.NewRows(prefColumns()))

	pref := NewPreferenceService(db).Resolve("bob")

	assert.Equal(t, models.CadenceImmediate, pref.Cadence)
	assert.True(t, pref.ChatNotifications)
	assert.True(t, pref.EventUpdates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveDefaultsOnLookupFailure(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "notification_preference"`).
		WillReturnError(errors.New("connection refused"))

	// A broken read must never fail the caller
	pref := NewPreferenceService(db).Resolve("carol")

	assert.Equal(t, models.DefaultPreference("carol"), pref)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRepairsUnknownCadence(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "notification_preference"`).
		WillReturnRows(sqlmock.NewRows(prefColumns()).AddRow("dave", "hourly", true, true))

	pref := NewPreferenceService(db).Resolve("dave")

	assert.Equal(t, models.CadenceImmediate, pref.Cadence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertWritesThroughOnConflict(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`INSERT INTO "notification_preference"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	off := false
	saved, err := NewPreferenceService(db).Upsert("alice", models.UpdatePreferenceRequest{
		Cadence:           models.CadenceWeekly,
		ChatNotifications: &off,
		EventUpdates:      &off,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CadenceWeekly, saved.Cadence)
	assert.False(t, saved.ChatNotifications)
	require.NoError(t, mock.ExpectationsWereMet())
}
