package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/blog-api/app"
	"github.com/upb/blog-api/handlers"
	"github.com/upb/blog-api/middleware"
)

// Route is one entry of the routing table. Protected routes reject
// unauthenticated callers with 401 before the handler runs.
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	Protected bool
}

// Table returns every route served by the API
func Table(deps *app.Dependencies) []Route {
	checks := map[string]handlers.ReadinessCheck{"database": nil}
	if deps.DB != nil {
		checks["database"] = deps.DB.HealthCheck
	}
	health := handlers.NewHealthHandler(checks, deps.Logger)

	routes := []Route{
		{Method: http.MethodGet, Pattern: "/", Handler: handlers.RootHandler},
		{Method: http.MethodGet, Pattern: "/healthz", Handler: health.HandleHealth},
		{Method: http.MethodGet, Pattern: "/readyz", Handler: health.HandleReadiness},
		{Method: http.MethodGet, Pattern: "/me", Handler: handlers.CurrentUserHandler(deps.Logger), Protected: true},
	}

	routes = append(routes, crud("/posts", handlers.NewResourceHandler(deps.Posts, deps.Logger))...)
	routes = append(routes, crud("/authors", handlers.NewResourceHandler(deps.Authors, deps.Logger))...)
	routes = append(routes, crud("/users", handlers.NewResourceHandler(deps.Users, deps.Logger))...)

	return routes
}

type crudHandler interface {
	HandleList(http.ResponseWriter, *http.Request)
	HandleGet(http.ResponseWriter, *http.Request)
	HandleCreate(http.ResponseWriter, *http.Request)
	HandleUpdate(http.ResponseWriter, *http.Request)
	HandleDelete(http.ResponseWriter, *http.Request)
}

func crud(prefix string, h crudHandler) []Route {
	item := prefix + "/{" + handlers.IDParam + "}"
	return []Route{
		{Method: http.MethodGet, Pattern: prefix, Handler: h.HandleList, Protected: true},
		{Method: http.MethodPost, Pattern: prefix, Handler: h.HandleCreate, Protected: true},
		{Method: http.MethodGet, Pattern: item, Handler: h.HandleGet, Protected: true},
		{Method: http.MethodPut, Pattern: item, Handler: h.HandleUpdate, Protected: true},
		{Method: http.MethodDelete, Pattern: item, Handler: h.HandleDelete, Protected: true},
	}
}

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	if deps.Config != nil && deps.Config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := deps.AuthMiddleware
	if auth != nil {
		r.Use(auth.Authenticate)
	}

	for _, route := range Table(deps) {
		if route.Protected && auth != nil {
			r.With(auth.RequireAuth).Method(route.Method, route.Pattern, route.Handler)
			continue
		}
		r.Method(route.Method, route.Pattern, route.Handler)
	}

	r.NotFound(handlers.NotFoundHandler)
	r.MethodNotAllowed(handlers.MethodNotAllowedHandler)

	return r
}
