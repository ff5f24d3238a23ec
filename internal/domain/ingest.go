package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileStatus is the outcome of ingesting one clearing file.
type FileStatus string

const (
	FileValidated FileStatus = "validated"
	FileRejected  FileStatus = "rejected"
)

// IngestedFile is the stored record of one ingested clearing file: header
// identity fields plus the trailer's asserted totals and the ingest outcome.
type IngestedFile struct {
	ID          string          `json:"id"`
	FileName    string          `json:"file_name"`
	FileHash    string          `json:"file_hash"`
	FileID      string          `json:"file_id"`
	PrevFileID  string          `json:"prev_file_id"`
	Entity      string          `json:"entity"`
	Currency    string          `json:"currency"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	RecordCount int             `json:"record_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalFees   decimal.Decimal `json:"total_fees"`
	TotalVAT    decimal.Decimal `json:"total_vat"`
	Status      FileStatus      `json:"status"`
	IngestedAt  time.Time       `json:"ingested_at"`
}

// Transaction is one stored detail record. Seq preserves the order the
// transaction appeared in the file.
type Transaction struct {
	ID     string `json:"id"`
	FileID string `json:"file_id"`
	Seq    int    `json:"seq"`
	DetailRecord
}

type FailureType string

const (
	FailureRecordCount FailureType = "RECORD_COUNT_MISMATCH"
	FailureAmount      FailureType = "AMOUNT_MISMATCH"
	FailureFee         FailureType = "FEE_MISMATCH"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ValidationFailure records one trailer assertion that did not hold for an
// ingested file, with the exact expected and computed values.
type ValidationFailure struct {
	ID          string      `json:"id"`
	FileID      string      `json:"file_id"`
	Type        FailureType `json:"type"`
	Expected    string      `json:"expected"`
	Actual      string      `json:"actual"`
	Difference  string      `json:"difference"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	DetectedAt  time.Time   `json:"detected_at"`
}
