package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clearport/mepsfeed/internal/ingestion"
	"github.com/clearport/mepsfeed/internal/report"
	"github.com/clearport/mepsfeed/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	fileRepo     *repository.FileRepo
	txnRepo      *repository.TransactionRepo
	failRepo     *repository.FailureRepo
	ingestionSvc *ingestion.Service
	log          *zap.SugaredLogger
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("[api] encode error: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil
		}
	}
	return &t
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// --- IngestFile ---

func (h *Handlers) IngestFile(w http.ResponseWriter, r *http.Request) {
	// Accept multipart form.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	result, err := h.ingestionSvc.IngestFile(data, header.Filename)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// --- ListFiles ---

func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.FileFilter{
		Entity: q.Get("entity"),
		Status: q.Get("status"),
		From:   parseTime(q.Get("from")),
		To:     parseTime(q.Get("to")),
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 50),
	}

	files, total, err := h.fileRepo.List(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// --- GetFile ---

func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	file, err := h.fileRepo.GetByID(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	failures, err := h.failRepo.GetByFileID(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"file":     file,
		"failures": failures,
	})
}

// --- ListFileTransactions ---

func (h *Handlers) ListFileTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	txns, err := h.txnRepo.ListByFile(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        len(txns),
	})
}

// --- FileReport ---

func (h *Handlers) FileReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, err := h.fileRepo.GetByID(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	txns, err := h.txnRepo.ListByFile(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	wb, err := report.BuildFileWorkbook(file, txns)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.FileID+`.xlsx"`)
	if err := wb.Write(w); err != nil {
		h.log.Errorf("[api] write workbook: %v", err)
	}
}

// --- ListTransactions ---

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		FileID:   q.Get("file_id"),
		Terminal: q.Get("terminal"),
		RefPag:   q.Get("refpag"),
		CodResp:  q.Get("codresp"),
		Version:  parseIntDefault(q.Get("version"), 0),
		Page:     parseIntDefault(q.Get("page"), 1),
		Limit:    parseIntDefault(q.Get("limit"), 50),
	}

	txns, total, err := h.txnRepo.List(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

// --- ListFailures ---

func (h *Handlers) ListFailures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.FailureFilter{
		Type:     q.Get("type"),
		Severity: q.Get("severity"),
		FileID:   q.Get("file_id"),
		Page:     parseIntDefault(q.Get("page"), 1),
		Limit:    parseIntDefault(q.Get("limit"), 50),
	}

	failures, total, err := h.failRepo.List(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"failures": failures,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// --- GetFailureSummary ---

func (h *Handlers) GetFailureSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.failRepo.GetSummary()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fileRepo.GetDashboardStats()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	failSummary, err := h.failRepo.GetSummary()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	txnCount, err := h.txnRepo.Count()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"files":        stats,
		"transactions": txnCount,
		"failures":     failSummary,
	})
}
