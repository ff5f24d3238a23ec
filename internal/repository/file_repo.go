package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearport/mepsfeed/internal/domain"
)

type FileRepo struct {
	db *sql.DB
}

func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// ExistsByHash checks whether a file with the given sha256 hash has already
// been ingested (idempotency check).
func (r *FileRepo) ExistsByHash(hash string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM clearing_files WHERE file_hash = ?", hash,
	).Scan(&count)
	return count > 0, err
}

func (r *FileRepo) Insert(f *domain.IngestedFile) error {
	_, err := r.db.Exec(
		`INSERT INTO clearing_files
		(id, file_name, file_hash, file_id, prev_file_id, entity, currency, vat_rate,
		 record_count, total_amount, total_fees, total_vat, status, ingested_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		f.ID, f.FileName, f.FileHash, f.FileID, f.PrevFileID, f.Entity, f.Currency,
		f.VATRate.String(), f.RecordCount, f.TotalAmount.String(), f.TotalFees.String(),
		f.TotalVAT.String(), string(f.Status), f.IngestedAt.Format(time.RFC3339),
	)
	return err
}

func (r *FileRepo) GetByID(id string) (*domain.IngestedFile, error) {
	row := r.db.QueryRow("SELECT * FROM clearing_files WHERE id = ?", id)
	return scanIngestedFile(row)
}

type FileFilter struct {
	Entity string
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

func (r *FileRepo) List(f FileFilter) ([]domain.IngestedFile, int, error) {
	where, args := buildFileWhere(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM clearing_files"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM clearing_files" + where + " ORDER BY ingested_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var files []domain.IngestedFile
	for rows.Next() {
		file, err := scanIngestedFile(rows)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, *file)
	}
	return files, total, rows.Err()
}

// DashboardStats summarises ingestion volume for the dashboard endpoint.
type DashboardStats struct {
	TotalFiles     int    `json:"total_files"`
	ValidatedFiles int    `json:"validated_files"`
	RejectedFiles  int    `json:"rejected_files"`
	TotalAmount    string `json:"total_amount"`
	TotalFees      string `json:"total_fees"`
}

func (r *FileRepo) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	err := r.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'validated' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0)
		 FROM clearing_files`,
	).Scan(&stats.TotalFiles, &stats.ValidatedFiles, &stats.RejectedFiles)
	if err != nil {
		return nil, err
	}

	// Sums are accumulated in decimal from the stored exact strings rather
	// than with SQL SUM over text.
	rows, err := r.db.Query("SELECT total_amount, total_fees FROM clearing_files WHERE status = 'validated'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	amount := decimal.Zero
	fees := decimal.Zero
	for rows.Next() {
		var amountStr, feesStr string
		if err := rows.Scan(&amountStr, &feesStr); err != nil {
			return nil, err
		}
		a, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, err
		}
		f, err := decimal.NewFromString(feesStr)
		if err != nil {
			return nil, err
		}
		amount = amount.Add(a)
		fees = fees.Add(f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.TotalAmount = amount.StringFixed(2)
	stats.TotalFees = fees.StringFixed(2)
	return stats, nil
}

func buildFileWhere(f FileFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Entity != "" {
		clauses = append(clauses, "entity = ?")
		args = append(args, f.Entity)
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.From != nil {
		clauses = append(clauses, "ingested_at >= ?")
		args = append(args, f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		clauses = append(clauses, "ingested_at <= ?")
		args = append(args, f.To.Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanIngestedFile(s scanner) (*domain.IngestedFile, error) {
	var f domain.IngestedFile
	var vatRate, totalAmount, totalFees, totalVAT, status, ingestedAt string

	err := s.Scan(
		&f.ID, &f.FileName, &f.FileHash, &f.FileID, &f.PrevFileID, &f.Entity,
		&f.Currency, &vatRate, &f.RecordCount, &totalAmount, &totalFees,
		&totalVAT, &status, &ingestedAt,
	)
	if err != nil {
		return nil, err
	}

	if f.VATRate, err = decimal.NewFromString(vatRate); err != nil {
		return nil, err
	}
	if f.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return nil, err
	}
	if f.TotalFees, err = decimal.NewFromString(totalFees); err != nil {
		return nil, err
	}
	if f.TotalVAT, err = decimal.NewFromString(totalVAT); err != nil {
		return nil, err
	}
	f.Status = domain.FileStatus(status)
	f.IngestedAt, _ = time.Parse(time.RFC3339, ingestedAt)

	return &f, nil
}
