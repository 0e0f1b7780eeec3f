package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keywatch/keywatch/internal/handler/dto"
	"github.com/keywatch/keywatch/internal/middleware"
	"github.com/keywatch/keywatch/internal/service"
)

// MonitorHandler handles HTTP requests for monitor operations.
type MonitorHandler struct {
	svc    *service.MonitorService
	logger *slog.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(svc *service.MonitorService, logger *slog.Logger) *MonitorHandler {
	return &MonitorHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes mounts the monitor endpoints on r.
func (h *MonitorHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /api/v1/monitors.
func (h *MonitorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	monitor, err := h.svc.CreateMonitor(r.Context(), service.CreateMonitorInput{
		Keyword:   req.Keyword,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("monitor_created",
		"request_id", middleware.GetRequestID(r.Context()),
		"monitor_id", monitor.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToMonitorResponse(monitor))
}

// Get handles GET /api/v1/monitors/{id}.
func (h *MonitorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Monitor ID is required")
		return
	}

	monitor, err := h.svc.GetMonitor(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMonitorResponse(monitor))
}

// List handles GET /api/v1/monitors?userEmail=.
func (h *MonitorHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		writeError(w, http.StatusBadRequest, "MISSING_USER_EMAIL", "userEmail query parameter is required")
		return
	}

	monitors, err := h.svc.ListMonitors(r.Context(), email)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMonitorListResponse(monitors))
}

// Delete handles DELETE /api/v1/monitors/{id}.
func (h *MonitorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Monitor ID is required")
		return
	}

	if err := h.svc.DeleteMonitor(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("monitor_deleted",
		"request_id", middleware.GetRequestID(r.Context()),
		"monitor_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *MonitorHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMonitorNotFound):
		writeError(w, http.StatusNotFound, "MONITOR_NOT_FOUND", "Monitor not found")
	case errors.Is(err, service.ErrInvalidKeyword):
		writeError(w, http.StatusBadRequest, "INVALID_KEYWORD", "Keyword must not be empty")
	case errors.Is(err, service.ErrKeywordTooLong):
		writeError(w, http.StatusBadRequest, "KEYWORD_TOO_LONG", "Keyword exceeds maximum length")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_USER_EMAIL", "userEmail must be a valid email address")
	default:
		h.logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
