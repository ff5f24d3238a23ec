package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/clearport/mepsfeed/internal/domain"
)

type FailureRepo struct {
	db *sql.DB
}

func NewFailureRepo(db *sql.DB) *FailureRepo {
	return &FailureRepo{db: db}
}

func (r *FailureRepo) BulkInsert(failures []domain.ValidationFailure) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO validation_failures
		(id, file_id, type, expected, actual, difference, severity, description, detected_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range failures {
		f := &failures[i]
		res, err := stmt.Exec(
			f.ID, f.FileID, string(f.Type), f.Expected, f.Actual, f.Difference,
			string(f.Severity), f.Description, f.DetectedAt.Format(time.RFC3339),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert failure %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *FailureRepo) GetByFileID(fileID string) ([]domain.ValidationFailure, error) {
	rows, err := r.db.Query(
		"SELECT * FROM validation_failures WHERE file_id = ?", fileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []domain.ValidationFailure
	for rows.Next() {
		f, err := scanValidationFailure(rows)
		if err != nil {
			return nil, err
		}
		failures = append(failures, *f)
	}
	return failures, rows.Err()
}

type FailureFilter struct {
	Type     string
	Severity string
	FileID   string
	Page     int
	Limit    int
}

func (r *FailureRepo) List(f FailureFilter) ([]domain.ValidationFailure, int, error) {
	where, args := buildFailureWhere(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM validation_failures"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM validation_failures" + where + " ORDER BY detected_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var failures []domain.ValidationFailure
	for rows.Next() {
		failure, err := scanValidationFailure(rows)
		if err != nil {
			return nil, 0, err
		}
		failures = append(failures, *failure)
	}
	return failures, total, rows.Err()
}

// FailureSummary aggregates failure counts by type and severity.
type FailureSummary struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"by_type"`
	BySeverity map[string]int `json:"by_severity"`
}

func (r *FailureRepo) GetSummary() (*FailureSummary, error) {
	summary := &FailureSummary{
		ByType:     map[string]int{},
		BySeverity: map[string]int{},
	}

	rows, err := r.db.Query(
		"SELECT type, severity, COUNT(*) FROM validation_failures GROUP BY type, severity",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ, sev string
		var count int
		if err := rows.Scan(&typ, &sev, &count); err != nil {
			return nil, err
		}
		summary.ByType[typ] += count
		summary.BySeverity[sev] += count
		summary.Total += count
	}
	return summary, rows.Err()
}

func buildFailureWhere(f FailureFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, f.Type)
	}
	if f.Severity != "" {
		clauses = append(clauses, "severity = ?")
		args = append(args, f.Severity)
	}
	if f.FileID != "" {
		clauses = append(clauses, "file_id = ?")
		args = append(args, f.FileID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanValidationFailure(rows *sql.Rows) (*domain.ValidationFailure, error) {
	var f domain.ValidationFailure
	var typ, sev, detectedAt string

	err := rows.Scan(
		&f.ID, &f.FileID, &typ, &f.Expected, &f.Actual, &f.Difference,
		&sev, &f.Description, &detectedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Type = domain.FailureType(typ)
	f.Severity = domain.Severity(sev)
	f.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)

	return &f, nil
}
