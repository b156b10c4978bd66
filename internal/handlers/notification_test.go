package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"huddle/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		NamingStrategy:         schema.NamingStrategy{SingularTable: true},
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.DB = db
	return mock
}

func TestNotificationStatsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupMockDB(t)

	for _, count := range []int64{2, 1, 5} {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "notification"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
	}

	router := gin.New()
	router.GET("/internal/notifications/stats", NotificationStats)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/internal/notifications/stats", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"due_pending":2,"scheduled_pending":1,"total_sent":5}`, recorder.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStatsEndpointSurfacesStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notification"`).
		WillReturnError(gorm.ErrInvalidDB)

	router := gin.New()
	router.GET("/internal/notifications/stats", NotificationStats)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/internal/notifications/stats", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
