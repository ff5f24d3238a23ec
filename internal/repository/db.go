package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Monetary columns are TEXT holding the exact decimal string; REAL would
// reintroduce the binary-float drift the parser exists to avoid.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clearing_files (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			file_hash TEXT UNIQUE NOT NULL,
			file_id TEXT NOT NULL,
			prev_file_id TEXT NOT NULL,
			entity TEXT NOT NULL,
			currency TEXT NOT NULL,
			vat_rate TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			total_amount TEXT NOT NULL,
			total_fees TEXT NOT NULL,
			total_vat TEXT NOT NULL,
			status TEXT NOT NULL,
			ingested_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clearing_files_entity ON clearing_files(entity)`,
		`CREATE INDEX IF NOT EXISTS idx_clearing_files_status ON clearing_files(status)`,
		`CREATE INDEX IF NOT EXISTS idx_clearing_files_file_id ON clearing_files(file_id)`,

		`CREATE TABLE IF NOT EXISTS meps_transactions (
			id TEXT PRIMARY KEY,
			file_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			codproc TEXT NOT NULL,
			idlog TEXT NOT NULL,
			nrlog TEXT NOT NULL,
			dthora DATETIME NOT NULL,
			montpgps TEXT NOT NULL,
			tarifaps TEXT NOT NULL,
			tipoterm TEXT NOT NULL,
			idterminal TEXT NOT NULL,
			identranps TEXT NOT NULL,
			locmorter TEXT NOT NULL,
			refpag TEXT NOT NULL,
			modenv TEXT NOT NULL,
			codresp TEXT NOT NULL,
			nridresps TEXT NOT NULL,
			version INTEGER NOT NULL,
			FOREIGN KEY (file_id) REFERENCES clearing_files(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meps_transactions_file ON meps_transactions(file_id)`,
		`CREATE INDEX IF NOT EXISTS idx_meps_transactions_terminal ON meps_transactions(idterminal)`,
		`CREATE INDEX IF NOT EXISTS idx_meps_transactions_refpag ON meps_transactions(refpag)`,

		`CREATE TABLE IF NOT EXISTS validation_failures (
			id TEXT PRIMARY KEY,
			file_id TEXT NOT NULL,
			type TEXT NOT NULL,
			expected TEXT NOT NULL,
			actual TEXT NOT NULL,
			difference TEXT NOT NULL,
			severity TEXT NOT NULL,
			description TEXT NOT NULL,
			detected_at DATETIME NOT NULL,
			FOREIGN KEY (file_id) REFERENCES clearing_files(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_failures_file ON validation_failures(file_id)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_failures_type ON validation_failures(type)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_failures_severity ON validation_failures(severity)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
