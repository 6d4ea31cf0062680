package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/centrallog/internal/ai"
	"github.com/starford/centrallog/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListRecords handles GET /api/records.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records := h.svc.ListRecords(r.Context())
	writeJSON(w, http.StatusOK, RecordListResponse{
		Records: records,
		Total:   len(records),
	})
}

// SaveRecord handles POST /api/records. An empty existing_path creates a new
// pair; a live one updates in place (relocating on type change).
func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	saved, err := h.svc.SaveRecord(r.Context(), req.Record(), req.ExistingPath)
	if err != nil {
		slog.Error("save record failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	status := http.StatusCreated
	if req.ExistingPath != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, saved)
}

// DeleteRecord handles DELETE /api/records?path=<json-path>.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	if err := h.svc.DeleteRecord(r.Context(), path); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete record failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLogs handles GET /api/logs.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs := h.svc.ListLogs(r.Context())
	writeJSON(w, http.StatusOK, LogListResponse{
		Logs:  logs,
		Total: len(logs),
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// Digest handles GET /api/digest with an optional limit query parameter.
func (h *Handler) Digest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, DigestResponse{
		Digest: h.svc.Digest(r.Context(), limit),
	})
}

// Analyze handles POST /api/analyze. Summarization failures are rendered as
// error bodies rather than crashing the request.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	content, err := h.svc.Analyze(r.Context(), req.Prompt, req.Local)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrMissingAPIKey):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("analyze failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{Content: content})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings(r.Context()))
}

// PutSettings handles PUT /api/settings, replacing the whole blob.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var blob map[string]string
	if err := json.NewDecoder(r.Body).Decode(&blob); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdateSettings(r.Context(), blob); err != nil {
		slog.Error("save settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, blob)
}
