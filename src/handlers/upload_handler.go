// backend/src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers"
	"github.com/username/pricedash/backend/src/security/validation"
	"github.com/username/pricedash/backend/src/services"
	"github.com/username/pricedash/backend/src/utils"
)

// analyzeRequest is the JSON form of POST /api/analyze.
type analyzeRequest struct {
	DataType string `json:"data_type" validate:"required,max=32"`
	CSVData  string `json:"csv_data"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
}

type UploadHandler struct {
	analysisService services.AnalysisService
	validate        *validator.Validate
	maxUploadSize   int64
	sanitize        bool
}

func NewUploadHandler(service services.AnalysisService, maxUploadSize int64, sanitize bool) *UploadHandler {
	return &UploadHandler{
		analysisService: service,
		validate:        newValidator(),
		maxUploadSize:   maxUploadSize,
		sanitize:        sanitize,
	}
}

// HandleAnalyze accepts either a multipart upload (file, data_type) or a
// JSON body carrying the CSV text inline.
func (h *UploadHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		h.handleJSONAnalyze(w, r)
		return
	}
	h.handleMultipartAnalyze(w, r)
}

func (h *UploadHandler) handleJSONAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req analyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("Failed to decode analyze request", "error", err)
		if isTooLarge(err) {
			utils.SendJSONError(w, h.tooLargeMessage(), http.StatusRequestEntityTooLarge)
			return
		}
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.SendJSONError(w, describeValidationErrors(err), http.StatusBadRequest)
		return
	}

	dataType, err := validation.ValidateDataType(req.DataType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	filename, err := validation.ValidateFilename(req.Filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("Processing inline analyze request", "dataType", dataType, "bytes", len(req.CSVData))
	run, err := h.analysisService.ProcessUpload(r.Context(), strings.NewReader(req.CSVData), parsers.FormatCSV, dataType, filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, presentRun(run, h.sanitize), http.StatusCreated)
}

func (h *UploadHandler) handleMultipartAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadSize)
		if isTooLarge(err) {
			utils.SendJSONError(w, h.tooLargeMessage(), http.StatusRequestEntityTooLarge)
			return
		}
		utils.SendJSONError(w, "Expected a multipart form with 'file' and 'data_type' fields", http.StatusBadRequest)
		return
	}

	dataType, err := validation.ValidateDataType(r.FormValue("data_type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadSize {
		utils.SendJSONError(w, h.tooLargeMessage(), http.StatusRequestEntityTooLarge)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename, err := validation.ValidateFilename(fileHeader.Filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	format := parsers.FormatFromFilename(filename)

	if err := validation.ValidateFileContent(file, format); err != nil {
		log.Warn("Server-side file content validation failed", "filename", filename, "error", err)
		writeServiceError(w, r, err)
		return
	}

	log.Info("Processing upload request", "filename", filename, "format", format, "dataType", dataType)
	run, err := h.analysisService.ProcessUpload(r.Context(), file, format, dataType, filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, presentRun(run, h.sanitize), http.StatusCreated)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *UploadHandler) tooLargeMessage() string {
	return fmt.Sprintf("File too large (max %d MB)", h.maxUploadSize/(1024*1024))
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func describeValidationErrors(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(msgs, "; ")
}

// presentRun applies output sanitisation to a run before it leaves the API.
func presentRun(run *models.AnalysisRun, sanitize bool) *models.AnalysisRun {
	if !sanitize {
		return run
	}
	clean := *run
	clean.Result = validation.SanitizeResult(run.Result)
	return &clean
}
