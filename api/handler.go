package api

import (
	"net/http"

	"github.com/htol/bookshelf/middleware"
	"github.com/htol/bookshelf/service"
)

// DefaultMaxBodyBytes caps create request bodies when no limit is configured
const DefaultMaxBodyBytes = 32 << 10

// NewHandler creates and returns the main HTTP handler (router) for the application
func NewHandler(svc *service.Service, maxBodyBytes int64) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()

	mux.Handle("GET /books", listBooksHandler(svc))
	mux.Handle("POST /books", createBookHandler(svc, maxBodyBytes))
	mux.Handle("DELETE /books/{id}", deleteBookHandler(svc))
	mux.HandleFunc("GET /health", healthCheckHandler(svc))

	// Apply middleware chain. RequestID runs first so the access and panic
	// logs see the id; Logger wraps Recovery to record the 500 it writes.
	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
	)

	return chain(mux)
}
