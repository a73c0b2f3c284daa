package services

import (
	"context"
	"fmt"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/store"
)

// EntryInput is one form submission: the raw values the UI collected.
type EntryInput struct {
	Date       core.Date
	Project    string
	Category   string
	Name       string
	Unit       string
	Quantity   float64
	UnitPrice  float64
	Note       string
	Attachment string
}

// Recorder validates and appends a single new entry, computing the monetary
// total from the category's kind. Item names are not checked against the live
// catalog: the catalog is advisory for selection, and recording against a
// name renamed or removed earlier in the same session must keep working.
type Recorder struct {
	config *store.ConfigStore
	ledger *store.LedgerStore
}

func NewRecorder(config *store.ConfigStore, ledger *store.LedgerStore) *Recorder {
	return &Recorder{config: config, ledger: ledger}
}

func (r *Recorder) Record(ctx context.Context, in EntryInput) (core.Entry, error) {
	cfg, err := r.config.Load(ctx)
	if err != nil {
		return core.Entry{}, err
	}
	kind, ok := cfg.Kind(in.Category)
	if !ok {
		return core.Entry{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, in.Category)
	}

	e := core.Entry{
		Date:       in.Date,
		Project:    in.Project,
		Category:   in.Category,
		Name:       in.Name,
		Unit:       in.Unit,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Total:      core.TotalFor(kind, in.Quantity, in.UnitPrice),
		Note:       in.Note,
		Attachment: in.Attachment,
	}
	if err := r.ledger.Append(ctx, e); err != nil {
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Entry recorded",
		"project", e.Project,
		"category", e.Category,
		"name", e.Name,
		"date", e.Date.String(),
		"total", e.Total)
	return e, nil
}
