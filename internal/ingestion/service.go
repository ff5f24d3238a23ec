// Package ingestion is the shell around the meps parser: it splits raw file
// bytes into lines, runs the parse, and persists either the validated file
// with all of its transactions or the rejected file with its validation
// failures.
package ingestion

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/clearport/mepsfeed/internal/domain"
	"github.com/clearport/mepsfeed/internal/meps"
	"github.com/clearport/mepsfeed/internal/repository"
)

// IngestResult is returned from a successful ingestion.
type IngestResult struct {
	FileID          string            `json:"file_id"`
	FileName        string            `json:"file_name"`
	Status          domain.FileStatus `json:"status"`
	RecordsStored   int               `json:"records_stored"`
	Failures        int               `json:"failures"`
	AlreadyIngested bool              `json:"already_ingested"`
}

// Service handles ingestion of MEPS clearing files.
type Service struct {
	fileRepo *repository.FileRepo
	txnRepo  *repository.TransactionRepo
	failRepo *repository.FailureRepo
	log      *zap.SugaredLogger
}

func NewService(
	fileRepo *repository.FileRepo,
	txnRepo *repository.TransactionRepo,
	failRepo *repository.FailureRepo,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		fileRepo: fileRepo,
		txnRepo:  txnRepo,
		failRepo: failRepo,
		log:      log,
	}
}

// IngestFile parses one clearing file and stores the outcome. A structurally
// broken or undecodable file is an error and leaves no trace; a structurally
// complete file whose trailer assertions fail is stored as rejected together
// with one failure row per mismatch.
func (s *Service) IngestFile(data []byte, fileName string) (*IngestResult, error) {
	// Idempotency check via file hash.
	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	exists, err := s.fileRepo.ExistsByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("check hash: %w", err)
	}
	if exists {
		return &IngestResult{
			FileName:        fileName,
			AlreadyIngested: true,
		}, nil
	}

	lines := meps.SplitLines(data)
	cf, parseErr := meps.Parse(lines)

	var valErr *meps.ValidationError
	switch {
	case parseErr == nil:
		return s.storeValidated(cf, fileName, hash)
	case errors.As(parseErr, &valErr):
		return s.storeRejected(lines, fileName, hash, valErr)
	default:
		return nil, fmt.Errorf("parse %s: %w", fileName, parseErr)
	}
}

func (s *Service) storeValidated(cf *domain.ClearingFile, fileName, hash string) (*IngestResult, error) {
	file := fileRowFrom(&cf.Header, &cf.Trailer, fileName, hash, domain.FileValidated)
	if err := s.fileRepo.Insert(file); err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}

	txns := make([]domain.Transaction, len(cf.Details))
	for i, d := range cf.Details {
		txns[i] = domain.Transaction{
			ID:           uuid.NewString(),
			FileID:       file.ID,
			Seq:          i + 1,
			DetailRecord: d,
		}
	}
	inserted, err := s.txnRepo.BulkInsert(txns)
	if err != nil {
		return nil, fmt.Errorf("insert transactions: %w", err)
	}

	s.log.Infof("[ingestion] ingested %s (%s): %d transactions, totals verified",
		fileName, file.FileID, inserted)

	return &IngestResult{
		FileID:        file.ID,
		FileName:      fileName,
		Status:        domain.FileValidated,
		RecordsStored: inserted,
	}, nil
}

// storeRejected records a structurally complete file whose trailer totals did
// not hold. The structure already passed, so re-decoding the header and
// trailer cannot fail.
func (s *Service) storeRejected(lines []string, fileName, hash string, valErr *meps.ValidationError) (*IngestResult, error) {
	header, err := meps.DecodeHeader(lines[0])
	if err != nil {
		return nil, fmt.Errorf("re-decode header: %w", err)
	}
	trailer, err := meps.DecodeTrailer(lines[len(lines)-1])
	if err != nil {
		return nil, fmt.Errorf("re-decode trailer: %w", err)
	}

	file := fileRowFrom(header, trailer, fileName, hash, domain.FileRejected)
	if err := s.fileRepo.Insert(file); err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}

	failures := make([]domain.ValidationFailure, 0, len(valErr.Mismatches))
	for _, m := range valErr.Mismatches {
		failures = append(failures, failureRowFrom(file.ID, m))
	}
	inserted, err := s.failRepo.BulkInsert(failures)
	if err != nil {
		return nil, fmt.Errorf("insert failures: %w", err)
	}

	s.log.Warnf("[ingestion] rejected %s (%s): %d trailer assertions failed",
		fileName, file.FileID, inserted)

	return &IngestResult{
		FileID:   file.ID,
		FileName: fileName,
		Status:   domain.FileRejected,
		Failures: inserted,
	}, nil
}

func fileRowFrom(h *domain.HeaderRecord, t *domain.TrailerRecord, fileName, hash string, status domain.FileStatus) *domain.IngestedFile {
	return &domain.IngestedFile{
		ID:          uuid.NewString(),
		FileName:    fileName,
		FileHash:    hash,
		FileID:      h.IDFich,
		PrevFileID:  h.IDFichAnt,
		Entity:      h.Entidade,
		Currency:    h.CodMoeda,
		VATRate:     h.TaxaIVA,
		RecordCount: t.TotReg,
		TotalAmount: t.MontranPS,
		TotalFees:   t.TotTarPS,
		TotalVAT:    t.ValIVA,
		Status:      status,
		IngestedAt:  time.Now().UTC(),
	}
}

func failureRowFrom(fileID string, mismatch error) domain.ValidationFailure {
	f := domain.ValidationFailure{
		ID:          uuid.NewString(),
		FileID:      fileID,
		Description: mismatch.Error(),
		DetectedAt:  time.Now().UTC(),
	}

	var countErr *meps.RecordCountMismatchError
	var amountErr *meps.AmountMismatchError
	var feeErr *meps.FeeMismatchError
	switch {
	case errors.As(mismatch, &countErr):
		f.Type = domain.FailureRecordCount
		f.Expected = strconv.Itoa(countErr.Expected)
		f.Actual = strconv.Itoa(countErr.Actual)
		f.Difference = strconv.Itoa(countErr.Expected - countErr.Actual)
		f.Severity = domain.SeverityHigh
	case errors.As(mismatch, &amountErr):
		f.Type = domain.FailureAmount
		f.Expected = amountErr.Expected.StringFixed(2)
		f.Actual = amountErr.Actual.StringFixed(2)
		diff := amountErr.Expected.Sub(amountErr.Actual)
		f.Difference = diff.StringFixed(2)
		f.Severity = mismatchSeverity(diff)
	case errors.As(mismatch, &feeErr):
		f.Type = domain.FailureFee
		f.Expected = feeErr.Expected.StringFixed(2)
		f.Actual = feeErr.Actual.StringFixed(2)
		diff := feeErr.Expected.Sub(feeErr.Actual)
		f.Difference = diff.StringFixed(2)
		f.Severity = mismatchSeverity(diff)
	}
	return f
}

func mismatchSeverity(diff decimal.Decimal) domain.Severity {
	abs := diff.Abs()
	switch {
	case abs.GreaterThan(decimal.NewFromInt(500)):
		return domain.SeverityCritical
	case abs.GreaterThan(decimal.NewFromInt(100)):
		return domain.SeverityHigh
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
