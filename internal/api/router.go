package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/clearport/mepsfeed/internal/ingestion"
	"github.com/clearport/mepsfeed/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	fileRepo *repository.FileRepo,
	txnRepo *repository.TransactionRepo,
	failRepo *repository.FailureRepo,
	ingestionSvc *ingestion.Service,
	log *zap.SugaredLogger,
) http.Handler {
	h := &Handlers{
		fileRepo:     fileRepo,
		txnRepo:      txnRepo,
		failRepo:     failRepo,
		ingestionSvc: ingestionSvc,
		log:          log,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Ingestion.
		r.Post("/files/ingest", h.IngestFile)

		// Clearing files.
		r.Get("/files", h.ListFiles)
		r.Get("/files/{id}", h.GetFile)
		r.Get("/files/{id}/transactions", h.ListFileTransactions)
		r.Get("/files/{id}/report.xlsx", h.FileReport)

		// Transactions.
		r.Get("/transactions", h.ListTransactions)

		// Validation failures.
		r.Get("/failures", h.ListFailures)
		r.Get("/failures/summary", h.GetFailureSummary)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
