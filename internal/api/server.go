// Package api exposes the matching engine to the annotation layer over
// HTTP. It owns no matching logic; it translates requests into service
// calls and shapes the JSON responses.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/oddslens/oddslens/internal/core/catalog"
	"github.com/oddslens/oddslens/internal/core/match"
)

const maxHeadlinesPerBatch = 200

// matchService is the surface the handler needs from the match layer.
type matchService interface {
	MatchHeadlines(ctx context.Context, headlines []string) (map[string][]match.Result, match.CatalogInfo, error)
	WarmCache(ctx context.Context) (match.CatalogInfo, error)
}

type Handler struct {
	service matchService
	logger  *zerolog.Logger
}

type matchRequest struct {
	Headlines []string `json:"headlines"`
}

type matchResponse struct {
	OK          bool                      `json:"ok"`
	Results     map[string][]match.Result `json:"results"`
	MarketCount int                       `json:"marketCount"`
	Origin      string                    `json:"origin,omitempty"`
}

type warmResponse struct {
	OK          bool   `json:"ok"`
	MarketCount int    `json:"marketCount"`
	Origin      string `json:"origin,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func NewHandler(service matchService, logger *zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Routes returns the mux with all API endpoints registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/match", postOnly(h.handleMatch))
	mux.HandleFunc("/v1/warm", postOnly(h.handleWarm))

	return mux
}

// postOnly restricts a route to POST requests; Go 1.21's ServeMux cannot
// express method-qualified patterns like "POST /v1/match".
func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		next(w, r)
	}
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if len(req.Headlines) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "headlines required"})
		return
	}

	if len(req.Headlines) > maxHeadlinesPerBatch {
		req.Headlines = req.Headlines[:maxHeadlinesPerBatch]
	}

	results, info, err := h.service.MatchHeadlines(r.Context(), req.Headlines)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{
		OK:          true,
		Results:     results,
		MarketCount: info.MarketCount,
		Origin:      info.Origin,
	})
}

func (h *Handler) handleWarm(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.WarmCache(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, warmResponse{
		OK:          true,
		MarketCount: info.MarketCount,
		Origin:      info.Origin,
	})
}

// writeUpstreamError maps a catalog outage to 503 so the annotation layer
// can show an "unavailable" state without crashing.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, catalog.ErrNoMarkets) {
		status = http.StatusServiceUnavailable
	}

	h.logger.Error().Err(err).Msg("match request failed")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
