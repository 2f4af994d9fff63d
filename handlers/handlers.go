package handlers

import (
	"net/http"

	"github.com/upb/blog-api/middleware"
	"github.com/upb/blog-api/services"
	"github.com/upb/blog-api/utils"
	"go.uber.org/zap"
)

// RootHandler handles GET /
func RootHandler(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteText(w, http.StatusOK, "Hello, World!")
}

// CurrentUserHandler handles GET /me and returns the caller's claims
func CurrentUserHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			HandleServiceError(w, services.NewDomainError(services.ErrorTypeUnauthorized, "no authenticated caller", nil), logger)
			return
		}

		if err := utils.WriteOK(w, claims); err != nil {
			logger.Error("failed to write response", zap.Error(err))
		}
	}
}

// NotFoundHandler answers unknown paths
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "endpoint not found")
}

// MethodNotAllowedHandler answers known paths called with the wrong method
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteMethodNotAllowed(w)
}
