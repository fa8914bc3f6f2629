// Package httphandler serves the review registry over HTTP for local preview
// of the documentation site's review badges.
package httphandler

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driven/registryfile"
	"github.com/ericfisherdev/reviewregistry/internal/application"
	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// Generator regenerates the registry on demand.
type Generator interface {
	Generate(ctx context.Context, repoFullName string) (*application.GenerateResult, error)
}

// Handler is the HTTP driving adapter for the registry preview API.
type Handler struct {
	registryPath string
	repo         string
	generator    Generator // nil disables POST /api/v1/regenerate.
	logger       *slog.Logger

	generating sync.Mutex
}

// NewHandler creates a Handler serving the registry file at registryPath.
// generator may be nil.
func NewHandler(registryPath, repoFullName string, generator Generator, logger *slog.Logger) *Handler {
	return &Handler{
		registryPath: registryPath,
		repo:         repoFullName,
		generator:    generator,
		logger:       logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with CORS, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /reviews.json", h.RegistryFile)
	mux.HandleFunc("GET /api/v1/reviews", h.ListReviews)
	mux.HandleFunc("GET /api/v1/reviews/{id}", h.GetReview)
	mux.HandleFunc("POST /api/v1/regenerate", h.Regenerate)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = corsMiddleware(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// loadRegistry reads the registry file, writing an error response and
// returning nil on failure.
func (h *Handler) loadRegistry(w http.ResponseWriter) *model.Registry {
	reg, err := registryfile.Read(h.registryPath)
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "registry not generated yet")
		return nil
	}
	if err != nil {
		h.logger.Error("failed to read registry", "path", h.registryPath, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil
	}
	return reg
}

// RegistryFile serves the registry document exactly as the site would fetch it.
func (h *Handler) RegistryFile(w http.ResponseWriter, _ *http.Request) {
	reg := h.loadRegistry(w)
	if reg == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := registryfile.Encode(w, reg); err != nil {
		h.logger.Error("failed to encode registry", "error", err)
	}
}

// ListReviews returns every registry entry in registry order.
func (h *Handler) ListReviews(w http.ResponseWriter, _ *http.Request) {
	reg := h.loadRegistry(w)
	if reg == nil {
		return
	}

	resp := make([]ReviewResponse, 0, reg.Reviews.Len())
	for _, id := range reg.Reviews.Keys() {
		entry, _ := reg.Reviews.Get(id)
		resp = append(resp, toReviewResponse(id, entry))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetReview returns a single registry entry by review id.
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	reg := h.loadRegistry(w)
	if reg == nil {
		return
	}

	id := r.PathValue("id")
	entry, ok := reg.Reviews.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(id, entry))
}

// Regenerate rebuilds the registry file. Only one regeneration runs at a time.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusNotImplemented, "regeneration disabled")
		return
	}
	if !h.generating.TryLock() {
		writeError(w, http.StatusConflict, "regeneration already running")
		return
	}
	defer h.generating.Unlock()

	result, err := h.generator.Generate(r.Context(), h.repo)
	if err != nil {
		h.logger.Error("regeneration failed", "repo", h.repo, "error", err)
		writeError(w, http.StatusBadGateway, "regeneration failed")
		return
	}

	writeJSON(w, http.StatusOK, toRegenerateResponse(result))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
