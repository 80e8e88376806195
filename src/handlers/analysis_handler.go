// backend/src/handlers/analysis_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/security/validation"
	"github.com/username/pricedash/backend/src/services"
	"github.com/username/pricedash/backend/src/utils"
)

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type AnalysisHandler struct {
	analysisService services.AnalysisService
	sanitize        bool
}

func NewAnalysisHandler(service services.AnalysisService, sanitize bool) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: service,
		sanitize:        sanitize,
	}
}

// NewAPIRouter mounts the analysis endpoints. main serves it under /api.
func NewAPIRouter(uploadHandler *UploadHandler, analysisHandler *AnalysisHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/analyze", uploadHandler.HandleAnalyze)
	r.Get("/analyses", analysisHandler.HandleListAnalyses)
	r.Get("/analyses/{id}", analysisHandler.HandleGetAnalysis)
	r.Delete("/analyses/{id}", analysisHandler.HandleDeleteAnalysis)
	r.Get("/analyses/{id}/export", analysisHandler.HandleExportAnalysis)
	return r
}

func (h *AnalysisHandler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.SendJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.analysisService.ListRuns(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, runs, http.StatusOK)
}

func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := h.analysisService.GetRun(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	run = presentRun(run, h.sanitize)

	currentETag, etagErr := utils.GenerateETag(run)
	if etagErr != nil {
		log.Error("Failed to generate ETag for analysis run", "runID", id, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				log.Debug("ETag match for analysis run", "runID", id)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, run, http.StatusOK)
}

func (h *AnalysisHandler) HandleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := h.analysisService.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnalysisHandler) HandleExportAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		utils.SendJSONError(w, fmt.Sprintf("unsupported export format '%s'", format), http.StatusBadRequest)
		return
	}

	// Buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.analysisService.ExportRun(r.Context(), id, format, &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"analysis-%s.%s\"", id, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Error("Error writing export response", "runID", id, "error", err)
	}
}

// writeServiceError maps pipeline and store errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed),
		errors.Is(err, models.ErrUnknownDataType),
		errors.Is(err, services.ErrUnsupportedExport):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrMalformedInput),
		errors.Is(err, services.ErrParsingFailed):
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrRunNotFound):
		utils.SendJSONError(w, "analysis not found", http.StatusNotFound)
	default:
		logger.FromContext(r.Context()).Error("Unhandled service error", "path", r.URL.Path, "error", err)
		msg := "internal server error"
		if requestID, ok := RequestIDFromContext(r.Context()); ok {
			msg = fmt.Sprintf("internal server error (request %s)", requestID)
		}
		utils.SendJSONError(w, msg, http.StatusInternalServerError)
	}
}
