package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ports "sitelog/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the persistence ports on a local SQLite file.
// Rows are stored one record per sheet row with the cells JSON-encoded, cells
// in a (sheet, addr) keyed table, mirroring the spreadsheet layout exactly so
// the stores stay backend-agnostic.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, sheet)
	if err != nil {
		return nil, fmt.Errorf("query rows of %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", sheet, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row of %s: %w", sheet, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %s: %w", sheet, err)
	}
	return out, nil
}

func (r *SQLiteRepository) OverwriteAll(ctx context.Context, sheet string, rows [][]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin overwrite of %s: %w", sheet, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, sheet); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row of %s: %w", sheet, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, sheet, string(raw)); err != nil {
			return fmt.Errorf("insert row of %s: %w", sheet, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit overwrite of %s: %w", sheet, err)
	}
	return nil
}

func (r *SQLiteRepository) AppendRow(ctx context.Context, sheet string, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row of %s: %w", sheet, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, sheet, string(raw)); err != nil {
		return fmt.Errorf("append row to %s: %w", sheet, err)
	}
	return nil
}

func (r *SQLiteRepository) ReadCell(ctx context.Context, sheet, addr string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM sheet_cells WHERE sheet = ? AND addr = ?`, sheet, addr).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cell %s!%s: %w", sheet, addr, err)
	}
	return value, nil
}

func (r *SQLiteRepository) WriteCell(ctx context.Context, sheet, addr, value string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sheet_cells (sheet, addr, value) VALUES (?, ?, ?)
		 ON CONFLICT (sheet, addr) DO UPDATE SET value = excluded.value`,
		sheet, addr, value); err != nil {
		return fmt.Errorf("write cell %s!%s: %w", sheet, addr, err)
	}
	return nil
}
