package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Records.
	r.Get("/records", h.ListRecords)
	r.Post("/records", h.SaveRecord)
	r.Delete("/records", h.DeleteRecord)

	// Logs (read-only; the .agentic producers own them).
	r.Get("/logs", h.ListLogs)

	// Dashboard.
	r.Get("/stats", h.Stats)
	r.Get("/digest", h.Digest)
	r.Post("/analyze", h.Analyze)

	// Settings blob.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
