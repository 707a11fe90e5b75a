package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hiringMetrics/internal/apperror"
	"hiringMetrics/internal/service"
)

const invalidRequest = "Invalid request"

// uploadMemoryBytes is how much of a multipart upload is held in memory
// before the rest spills to a temporary file.
const uploadMemoryBytes = 10 << 20

type Handler struct {
	service        service.Manager
	logger         *log.Logger
	maxUploadBytes int64
}

func NewHandler(svc service.Manager, logger *log.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &Handler{
		service:        svc,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("GET /query", h.handleQuery)
	mux.HandleFunc("POST /delete", h.handleDelete)
	mux.HandleFunc("POST /truncate/{table}", h.handleTruncate)
	mux.HandleFunc("GET /metrics/employees-by-job-department", h.handleEmployeesByJobDepartment)
	mux.HandleFunc("GET /metrics/departments-with-highest-hiring", h.handleDepartmentsWithHighestHiring)
	mux.HandleFunc("GET /uploads", h.handleUploads)
	mux.HandleFunc("GET /healthcheck", h.handleHealthcheck)
	return mux
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(min(uploadMemoryBytes, h.maxUploadBytes)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "Error: upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeText(w, http.StatusBadRequest, invalidRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	table := r.FormValue("table")
	file, header, err := r.FormFile("file")
	if err != nil || table == "" {
		writeText(w, http.StatusBadRequest, invalidRequest)
		return
	}
	defer file.Close()

	if _, err := h.service.Upload(r.Context(), service.UploadInput{
		Table:    table,
		FileName: header.Filename,
		Body:     file,
	}); err != nil {
		h.respondWithError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Data uploaded successfully")
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		writeText(w, http.StatusBadRequest, invalidRequest)
		return
	}

	rows, err := h.service.Query(r.Context(), table)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	input := service.DeleteInput{
		Table:  r.FormValue("table"),
		Column: r.FormValue("filter_column"),
		Value:  r.FormValue("filter_value"),
	}
	if input.Table == "" || input.Column == "" || input.Value == "" {
		writeText(w, http.StatusBadRequest, invalidRequest)
		return
	}

	if _, err := h.service.Delete(r.Context(), input); err != nil {
		h.respondWithError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Data deleted successfully")
}

func (h *Handler) handleTruncate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Truncate(r.Context(), r.PathValue("table")); err != nil {
		h.respondWithError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Table truncated successfully")
}

func (h *Handler) handleEmployeesByJobDepartment(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.EmployeesByJobDepartment(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleDepartmentsWithHighestHiring(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.DepartmentsWithHighestHiring(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleUploads(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeText(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	uploads, err := h.service.RecentUploads(r.Context(), limit)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploads)
}

func (h *Handler) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Printf("healthcheck: %v", err)
		writeText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeText(w, http.StatusOK, "ok")
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeInvalidRequest:
		writeText(w, http.StatusBadRequest, err.Error())
	case apperror.CodeUnknownTable:
		writeText(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Printf("storage error: %v", err)
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
