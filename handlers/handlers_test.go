package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upb/blog-api/middleware"
	"go.uber.org/zap"
)

func TestRootHandler(t *testing.T) {
	w := httptest.NewRecorder()

	RootHandler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, World!", w.Body.String())
}

func TestCurrentUserHandler(t *testing.T) {
	handler := CurrentUserHandler(zap.NewNop())

	t.Run("returns caller claims", func(t *testing.T) {
		email := "ada@example.com"
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), &middleware.Claims{Sub: "user-1", Email: &email}))
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sub":"user-1","email":"ada@example.com"}`, w.Body.String())
	})

	t.Run("email omitted when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), &middleware.Claims{Sub: "user-2"}))
		w := httptest.NewRecorder()

		handler(w, req)

		assert.JSONEq(t, `{"sub":"user-2"}`, w.Body.String())
	})

	t.Run("no caller", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFallbackHandlers(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundHandler(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"not_found"`)

	w = httptest.NewRecorder()
	MethodNotAllowedHandler(w, httptest.NewRequest(http.MethodPatch, "/posts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
