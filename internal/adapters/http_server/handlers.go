// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"appcatalog/internal/domain"
)

// Handlers serves catalog searches in the upstream search API's shape.
type Handlers struct {
	Catalog domain.Catalog
	APIKey  string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireKey(h.APIKey))
		r.Get("/v1/app-store-api/search", h.search)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "query parameter is required")
		return
	}
	res, err := h.Catalog.Search(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("query", q).Msg("catalog search failed")
		writeProblem(w, http.StatusBadGateway, "Search failed", "catalog search failed")
		return
	}
	if res.Results == nil {
		res.Results = []domain.Record{}
	}

	body, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal search response")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write search body")
	}
}
