package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/sheets"
)

// ErrUnavailable marks persistence-layer failures (unreachable store, auth
// failure) surfaced at the store boundary. Load callers may degrade to an
// empty result; write callers must report it, never swallow it.
var ErrUnavailable = errors.New("store unavailable")

var ledgerHeader = []string{"date", "project", "category", "name", "unit", "quantity", "unit_price", "total", "note"}

// LedgerStore owns the flat collection of dated entries for all projects.
// Every higher-level mutation is expressed as load, transform in memory,
// replace all; Append is the single incremental write used for new entries.
type LedgerStore struct {
	rows interface {
		sheets.RowReader
		sheets.RowWriter
	}
}

func NewLedgerStore(rows sheets.Store) *LedgerStore {
	return &LedgerStore{rows: rows}
}

// Load fetches and parses every ledger row. Rows whose date fails to parse
// are dropped, never persisted back; the dropped count is reported in
// aggregate. Numeric cells default to zero when malformed.
func (s *LedgerStore) Load(ctx context.Context) (entries []core.Entry, dropped int, err error) {
	rows, err := s.rows.ReadAllRows(ctx, sheets.LedgerSheet)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: load ledger: %v", ErrUnavailable, err)
	}
	for _, row := range rows {
		if isHeaderRow(row) {
			continue
		}
		e, ok := parseRow(row)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropped ledger rows with unparseable dates", "dropped", dropped)
	}
	return entries, dropped, nil
}

// ReplaceAll destructively overwrites the backing sheet with the given row
// set. Dates are serialized to their canonical form and derived columns are
// not written.
func (s *LedgerStore) ReplaceAll(ctx context.Context, entries []core.Entry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, ledgerHeader)
	for _, e := range entries {
		rows = append(rows, serializeRow(e))
	}
	if err := s.rows.OverwriteAll(ctx, sheets.LedgerSheet, rows); err != nil {
		return fmt.Errorf("%w: replace ledger: %v", ErrUnavailable, err)
	}
	return nil
}

// Append adds exactly one row without reading or rewriting existing rows.
func (s *LedgerStore) Append(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.rows.AppendRow(ctx, sheets.LedgerSheet, serializeRow(e)); err != nil {
		return fmt.Errorf("%w: append entry: %v", ErrUnavailable, err)
	}
	return nil
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && row[0] == ledgerHeader[0]
}

func parseRow(row []string) (core.Entry, bool) {
	if len(row) == 0 {
		return core.Entry{}, false
	}
	d, err := core.ParseDate(cell(row, 0))
	if err != nil {
		return core.Entry{}, false
	}
	note, ref := core.SplitNote(cell(row, 8))
	return core.Entry{
		Date:       d,
		Project:    cell(row, 1),
		Category:   cell(row, 2),
		Name:       cell(row, 3),
		Unit:       cell(row, 4),
		Quantity:   core.ParseNumber(cell(row, 5)),
		UnitPrice:  core.ParseNumber(cell(row, 6)),
		Total:      core.ParseNumber(cell(row, 7)),
		Note:       note,
		Attachment: ref,
	}, true
}

func serializeRow(e core.Entry) []string {
	return []string{
		e.Date.String(),
		e.Project,
		e.Category,
		e.Name,
		e.Unit,
		core.FormatNumber(e.Quantity),
		core.FormatNumber(e.UnitPrice),
		core.FormatNumber(e.Total),
		core.JoinNote(e.Note, e.Attachment),
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
