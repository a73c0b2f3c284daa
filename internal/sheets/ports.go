package sheets

import "context"

// Sheet and cell addresses of the persisted layout.
const (
	LedgerSheet = "Ledger"
	ConfigSheet = "System_Config"
	ConfigCell  = "A1"
)

// Ports for outbound adapters. The backing store is treated as an opaque
// tabular/key-value store: the ledger uses the row-oriented operations, the
// configuration document lives in a single cell.
type (
	RowReader interface {
		// ReadAllRows returns every row of a sheet, header included.
		ReadAllRows(ctx context.Context, sheet string) ([][]string, error)
	}

	RowWriter interface {
		// OverwriteAll destructively replaces the whole sheet with rows.
		OverwriteAll(ctx context.Context, sheet string, rows [][]string) error
		// AppendRow adds one row after the last populated row without
		// reading or rewriting existing rows.
		AppendRow(ctx context.Context, sheet string, row []string) error
	}

	CellReader interface {
		// ReadCell returns the string value of one cell, "" when empty.
		ReadCell(ctx context.Context, sheet, addr string) (string, error)
	}

	CellWriter interface {
		WriteCell(ctx context.Context, sheet, addr, value string) error
	}

	// Store is the full persistence collaborator surface.
	Store interface {
		RowReader
		RowWriter
		CellReader
		CellWriter
	}
)
