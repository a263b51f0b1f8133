// Package http exposes a mirrored behavior stack for observation:
// the latest snapshot as JSON, the tree as a Mermaid diagram with the
// active path highlighted, and Prometheus metrics.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StackSource is anything that can report a reconstructed (or live)
// active stack. Both mirror.Replica and the engine facade satisfy it.
type StackSource interface {
	Valid() bool
	Stack() []domain.StackEntry
	Snapshot() *schema.Record
	Tree() *domain.Tree
}

// stackResponse is the JSON body of GET /api/stack.
type stackResponse struct {
	// Received is false while no valid snapshot is held.
	Received bool           `json:"received"`
	Stack    *schema.Record `json:"stack,omitempty"`
}

// NewHandler builds the observation router over a stack source.
func NewHandler(src StackSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/stack", func(w http.ResponseWriter, _ *http.Request) {
		resp := stackResponse{}
		if src.Valid() {
			resp.Received = true
			resp.Stack = src.Snapshot()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, "failed to encode stack", http.StatusInternalServerError)
		}
	})

	r.Get("/api/graph", func(w http.ResponseWriter, _ *http.Request) {
		var overlay *graph.Overlay
		if src.Valid() {
			overlay = &graph.Overlay{Stack: src.Stack()}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(graph.GenerateMermaid(src.Tree(), overlay)))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
