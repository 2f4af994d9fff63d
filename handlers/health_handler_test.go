package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/blog-api/repositories/postgres"
	"go.uber.org/zap"
)

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response["data"].(map[string]interface{})
}

// databaseCheck wires a sqlmock pool through postgres.DB.HealthCheck
func databaseCheck(t *testing.T) (ReadinessCheck, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return postgres.NewDBFromConn(conn, zap.NewNop()).HealthCheck, mock
}

func readiness(handler *HealthHandler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return w
}

func TestHandleHealth(t *testing.T) {
	handler := NewHealthHandler(nil, zap.NewNop())

	w := httptest.NewRecorder()
	handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeHealth(t, w)
	assert.Equal(t, "healthy", data["status"])
	assert.NotEmpty(t, data["timestamp"])
	assert.NotContains(t, data, "checks")
}

func TestHandleReadiness(t *testing.T) {
	logger := zap.NewNop()

	t.Run("healthy when database is available", func(t *testing.T) {
		check, mock := databaseCheck(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		w := readiness(NewHealthHandler(map[string]ReadinessCheck{"database": check}, logger))

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeHealth(t, w)
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, "healthy", data["checks"].(map[string]interface{})["database"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unhealthy when database ping fails", func(t *testing.T) {
		check, mock := databaseCheck(t)
		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		w := readiness(NewHealthHandler(map[string]ReadinessCheck{"database": check}, logger))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		data := decodeHealth(t, w)
		assert.Equal(t, "unhealthy", data["status"])
		assert.Equal(t, "unhealthy", data["checks"].(map[string]interface{})["database"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unhealthy when database query fails", func(t *testing.T) {
		check, mock := databaseCheck(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnError(sql.ErrConnDone)

		w := readiness(NewHealthHandler(map[string]ReadinessCheck{"database": check}, logger))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not ready when no database configured", func(t *testing.T) {
		w := readiness(NewHealthHandler(map[string]ReadinessCheck{"database": nil}, logger))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		data := decodeHealth(t, w)
		assert.Equal(t, "not_configured", data["checks"].(map[string]interface{})["database"])
	})

	t.Run("one failing check fails readiness", func(t *testing.T) {
		w := readiness(NewHealthHandler(map[string]ReadinessCheck{
			"database": func(context.Context) error { return nil },
			"jwks":     func(context.Context) error { return sql.ErrConnDone },
		}, logger))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		checks := decodeHealth(t, w)["checks"].(map[string]interface{})
		assert.Equal(t, "healthy", checks["database"])
		assert.Equal(t, "unhealthy", checks["jwks"])
	})
}
