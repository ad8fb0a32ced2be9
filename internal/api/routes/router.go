package routes

import (
	"net/http"

	"github.com/zatekoja/doctorfinder/internal/api/handlers"
	"github.com/zatekoja/doctorfinder/internal/api/middleware"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
)

// Options tunes the cross-cutting HTTP behaviour
type Options struct {
	AllowedOrigins   []string
	SuggestPerMinute int
	MetricsHandler   http.Handler
	// SSEHandler serves the directory event stream when set
	SSEHandler *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	directoryHandler *handlers.DirectoryHandler
	sessionHandler   *handlers.SessionHandler

	opts    Options
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	directoryHandler *handlers.DirectoryHandler,
	sessionHandler *handlers.SessionHandler,
	opts Options,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		directoryHandler: directoryHandler,
		sessionHandler:   sessionHandler,
		opts:             opts,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Directory endpoints
	r.mux.HandleFunc("GET /api/providers", r.directoryHandler.ListProviders)
	r.mux.Handle("GET /api/providers/suggest",
		middleware.RateLimitPerMinute(r.opts.SuggestPerMinute)(http.HandlerFunc(r.directoryHandler.SuggestProviders)))
	r.mux.HandleFunc("GET /api/specialties", r.directoryHandler.ListSpecialties)
	r.mux.HandleFunc("POST /api/directory/refresh", r.directoryHandler.RefreshDirectory)

	// Query session endpoints
	if r.sessionHandler != nil {
		r.mux.HandleFunc("POST /api/sessions", r.sessionHandler.CreateSession)
		r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.GetSession)
		r.mux.HandleFunc("PATCH /api/sessions/{id}", r.sessionHandler.UpdateSession)
		r.mux.HandleFunc("DELETE /api/sessions/{id}", r.sessionHandler.DeleteSession)
		r.mux.HandleFunc("GET /api/sessions/{id}/providers", r.sessionHandler.ListSessionProviders)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)

	if r.opts.MetricsHandler == nil && r.opts.SSEHandler == nil {
		return handler
	}

	// Streaming and scrape endpoints bypass response buffering and compression
	root := http.NewServeMux()
	if r.opts.MetricsHandler != nil {
		root.Handle("GET /metrics", r.opts.MetricsHandler)
	}
	if r.opts.SSEHandler != nil {
		var stream http.Handler = http.HandlerFunc(r.opts.SSEHandler.StreamDirectoryUpdates)
		stream = middleware.LoggingMiddleware(stream)
		stream = middleware.ObservabilityMiddleware(r.metrics)(stream)
		stream = middleware.CORSMiddleware(r.opts.AllowedOrigins)(stream)
		root.Handle("GET /api/directory/events", stream)
	}
	root.Handle("/", handler)
	return root
}
