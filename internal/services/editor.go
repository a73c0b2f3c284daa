package services

import (
	"context"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/store"
)

// Scope bounds one edit/delete operation: one project, one month, one or more
// category keys.
type Scope struct {
	Project    string
	Month      string // "2006-01"
	Categories []string
}

// Matches reports whether an entry falls inside the scope, judged by the
// entry's own (project, derived month, category) values.
func (sc Scope) Matches(e core.Entry) bool {
	if e.Project != sc.Project || e.Month() != sc.Month {
		return false
	}
	for _, key := range sc.Categories {
		if e.Category == key {
			return true
		}
	}
	return false
}

// Reconcile replaces exactly the scope's rows in the full ledger with the
// edited subset, leaving all other rows untouched. Removal is decided by the
// original rows' location: an edited row whose date or project was hand-edited
// out of the scope is still written, which lets the editor move a row to a
// different month or project. Totals of the edited rows are recomputed from
// kind, never trusted from the client; rows of a category missing from kinds
// keep their submitted total.
func Reconcile(full, edited []core.Entry, sc Scope, kinds map[string]core.CategoryKind) []core.Entry {
	result := make([]core.Entry, 0, len(full))
	for _, e := range full {
		if !sc.Matches(e) {
			result = append(result, e)
		}
	}
	for _, e := range edited {
		if kind, ok := kinds[e.Category]; ok {
			e.Total = core.TotalFor(kind, e.Quantity, e.UnitPrice)
		}
		result = append(result, e)
	}
	return result
}

// Editor applies scoped edits through one load-reconcile-replace cycle.
type Editor struct {
	config *store.ConfigStore
	ledger *store.LedgerStore
}

func NewEditor(config *store.ConfigStore, ledger *store.LedgerStore) *Editor {
	return &Editor{config: config, ledger: ledger}
}

// Slice returns the scope's rows as currently persisted, the set a user edits.
func (ed *Editor) Slice(ctx context.Context, sc Scope) ([]core.Entry, error) {
	full, _, err := ed.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Entry
	for _, e := range full {
		if sc.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Apply replaces the scope's rows with the edited subset. Rows the user
// deleted are simply absent from edited.
func (ed *Editor) Apply(ctx context.Context, sc Scope, edited []core.Entry) error {
	cfg, err := ed.config.Load(ctx)
	if err != nil {
		return err
	}
	full, _, err := ed.ledger.Load(ctx)
	if err != nil {
		return err
	}
	result := Reconcile(full, edited, sc, cfg.Kinds())
	if err := ed.ledger.ReplaceAll(ctx, result); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Scoped edit applied",
		"project", sc.Project,
		"month", sc.Month,
		"categories", sc.Categories,
		"replaced", len(full)-len(result)+len(edited),
		"submitted", len(edited))
	return nil
}
