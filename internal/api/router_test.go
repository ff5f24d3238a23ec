package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearport/mepsfeed/internal/ingestion"
	"github.com/clearport/mepsfeed/internal/repository"
)

const headerLine = "0MEPS0000003500000029MEPS0000123MEPS0000122   10294978023EDST0000123"

func detailLine(nrlog string, amountCents, feeCents int64) string {
	return "2" + "03" + "0001" + nrlog + "20241027011323" +
		fmt.Sprintf("%010d", amountCents) + fmt.Sprintf("%05d", feeCents) +
		"M" + "TRM0000001" + "00001" + "LISBOA         " + "123456789" + "O" + "0" + "MSG000000001"
}

func trailerLine(totreg int, amountCents, feeCents, vatCents int64) string {
	return "9" + fmt.Sprintf("%08d", totreg) + fmt.Sprintf("%016d", amountCents) +
		fmt.Sprintf("%012d", feeCents) + fmt.Sprintf("%012d", vatCents)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fileRepo := repository.NewFileRepo(db)
	txnRepo := repository.NewTransactionRepo(db)
	failRepo := repository.NewFailureRepo(db)
	log := zap.NewNop().Sugar()
	svc := ingestion.NewService(fileRepo, txnRepo, failRepo, log)
	return NewRouter(fileRepo, txnRepo, failRepo, svc, log)
}

func multipartFile(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestIngestAndQueryFlow(t *testing.T) {
	router := newTestRouter(t)

	data := []byte(headerLine + "\n" +
		detailLine("00000001", 1500, 75) + "\n" +
		detailLine("00000002", 725, 50) + "\n" +
		trailerLine(2, 2225, 125, 29) + "\n")

	body, contentType := multipartFile(t, "MEPS_10294_1", data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ingestResp struct {
		FileID string `json:"file_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingestResp))
	assert.Equal(t, "validated", ingestResp.Status)
	require.NotEmpty(t, ingestResp.FileID)

	// File list reflects the ingest.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/files?entity=10294", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Total)

	// Transactions are retrievable in file order.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/files/"+ingestResp.FileID+"/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var txnResp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txnResp))
	assert.Equal(t, 2, txnResp.Total)

	// Dashboard aggregates.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Transactions int `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.Transactions)

	// The xlsx report downloads.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/files/"+ingestResp.FileID+"/report.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestIngestRejectsMalformedFile(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartFile(t, "broken", []byte("not a meps file\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetFileNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/files/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
