package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vouch/internal/check/models"
	"vouch/internal/fetch"
	"vouch/pkg/platform/httputil"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

// Service defines the interface for check operations.
type Service interface {
	Check(ctx context.Context, name string) (*models.Result, error)
}

// Handler wires check endpoints to the check service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a check handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts check endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/checks", h.HandleCheck)
}

// CheckRequest is the POST /v1/checks request body.
type CheckRequest struct {
	Username string `json:"username"`
}

// HandleCheck handles POST /v1/checks requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}

	result, err := h.service.Check(ctx, req.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "check failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		writeCheckError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "check completed",
		"request_id", requestID,
		"username", req.Username,
		"passed", result.OverallPassed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}

// writeCheckError maps pipeline failures to the error envelope. Rate-limit
// exhaustion is retryable for the caller, upstream faults are not.
func writeCheckError(w http.ResponseWriter, err error) {
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		httputil.WriteError(w, http.StatusNotFound, "subject_not_found", notFound.Error())
		return
	}

	if errors.Is(err, sentinel.ErrRateLimited) {
		httputil.WriteError(w, http.StatusServiceUnavailable, "upstream_rate_limited", "")
		return
	}

	var upstream *fetch.UpstreamError
	if errors.As(err, &upstream) {
		httputil.WriteError(w, http.StatusBadGateway, "upstream_unavailable", "")
		return
	}

	httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "")
}
