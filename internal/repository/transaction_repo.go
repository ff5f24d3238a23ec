package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearport/mepsfeed/internal/domain"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) BulkInsert(txns []domain.Transaction) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO meps_transactions
		(id, file_id, seq, codproc, idlog, nrlog, dthora, montpgps, tarifaps,
		 tipoterm, idterminal, identranps, locmorter, refpag, modenv, codresp,
		 nridresps, version)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range txns {
		t := &txns[i]
		res, err := stmt.Exec(
			t.ID, t.FileID, t.Seq, t.CodProc, t.IDLog, t.NrLog,
			t.DtHora.Format(time.RFC3339), t.MontPgPS.String(), t.TarifaPS.String(),
			t.TipoTerm, t.IDTerminal, t.IdenTranPS, t.LocMorTer, t.RefPag,
			t.ModEnv, t.CodResp, t.NrIDRespS, t.Version,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert transaction %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ListByFile returns the transactions of one file in their original order.
func (r *TransactionRepo) ListByFile(fileID string) ([]domain.Transaction, error) {
	rows, err := r.db.Query(
		"SELECT * FROM meps_transactions WHERE file_id = ? ORDER BY seq ASC", fileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

type TransactionFilter struct {
	FileID   string
	Terminal string
	RefPag   string
	CodResp  string
	Version  int
	Page     int
	Limit    int
}

func (r *TransactionRepo) List(f TransactionFilter) ([]domain.Transaction, int, error) {
	where, args := buildTransactionWhere(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM meps_transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	q := "SELECT * FROM meps_transactions" + where + " ORDER BY dthora DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *t)
	}
	return txns, total, rows.Err()
}

func (r *TransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM meps_transactions").Scan(&count)
	return count, err
}

func buildTransactionWhere(f TransactionFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.FileID != "" {
		clauses = append(clauses, "file_id = ?")
		args = append(args, f.FileID)
	}
	if f.Terminal != "" {
		clauses = append(clauses, "idterminal = ?")
		args = append(args, f.Terminal)
	}
	if f.RefPag != "" {
		clauses = append(clauses, "refpag = ?")
		args = append(args, f.RefPag)
	}
	if f.CodResp != "" {
		clauses = append(clauses, "codresp = ?")
		args = append(args, f.CodResp)
	}
	if f.Version != 0 {
		clauses = append(clauses, "version = ?")
		args = append(args, f.Version)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var t domain.Transaction
	var dthora, montpgps, tarifaps string

	err := rows.Scan(
		&t.ID, &t.FileID, &t.Seq, &t.CodProc, &t.IDLog, &t.NrLog, &dthora,
		&montpgps, &tarifaps, &t.TipoTerm, &t.IDTerminal, &t.IdenTranPS,
		&t.LocMorTer, &t.RefPag, &t.ModEnv, &t.CodResp, &t.NrIDRespS, &t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.TipReg = domain.TagDetail
	t.DtHora, _ = time.Parse(time.RFC3339, dthora)
	if t.MontPgPS, err = decimal.NewFromString(montpgps); err != nil {
		return nil, err
	}
	if t.TarifaPS, err = decimal.NewFromString(tarifaps); err != nil {
		return nil, err
	}

	return &t, nil
}
