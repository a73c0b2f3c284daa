package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/store"
)

// ErrPartialCascade marks a rename whose config write and ledger rewrite did
// not both succeed. There is no transaction spanning the two stores, so the
// surviving half is left in place and the gap is reported, not rolled back.
var ErrPartialCascade = errors.New("rename cascade partially applied")

// Cascade propagates renames of projects and catalog items across the
// configuration document and every matching historical ledger row.
type Cascade struct {
	config *store.ConfigStore
	ledger *store.LedgerStore
}

func NewCascade(config *store.ConfigStore, ledger *store.LedgerStore) *Cascade {
	return &Cascade{config: config, ledger: ledger}
}

// RenameItem renames one catalog item within a project/category, moves its
// price-table entry, and rewrites matching ledger rows. Returns false with no
// mutation when old equals new or new already exists in the item list.
// Rewrite order follows the source of record: item list and prices are
// updated in memory, the ledger is rewritten, then the config document is
// persisted.
func (c *Cascade) RenameItem(ctx context.Context, project, categoryKey, oldName, newName string) (bool, error) {
	cfg, err := c.config.Load(ctx)
	if err != nil {
		return false, err
	}
	if !cfg.RenameItem(project, categoryKey, oldName, newName) {
		return false, nil
	}

	ledgerErr := c.rewriteLedger(ctx, func(e *core.Entry) bool {
		if e.Project == project && e.Category == categoryKey && e.Name == oldName {
			e.Name = newName
			return true
		}
		return false
	})

	if err := c.config.Save(ctx, cfg); err != nil {
		if ledgerErr == nil {
			slog.ErrorContext(ctx, "Item renamed in ledger but config save failed",
				"project", project, "category", categoryKey, "old", oldName, "new", newName, "error", err)
			return true, fmt.Errorf("%w: %v", ErrPartialCascade, err)
		}
		return false, err
	}
	if ledgerErr != nil {
		slog.ErrorContext(ctx, "Item renamed in config but ledger rewrite failed",
			"project", project, "category", categoryKey, "old", oldName, "new", newName, "error", ledgerErr)
		return true, fmt.Errorf("%w: %v", ErrPartialCascade, ledgerErr)
	}

	slog.InfoContext(ctx, "Item renamed",
		"project", project, "category", categoryKey, "old", oldName, "new", newName)
	return true, nil
}

// RenameProject renames a project in the catalog, moves its item and price
// subtrees, and rewrites the project field of every matching ledger row. The
// config document is persisted first and the ledger second; a ledger failure
// after the config write leaves the documented inconsistency window.
func (c *Cascade) RenameProject(ctx context.Context, oldName, newName string) (bool, error) {
	cfg, err := c.config.Load(ctx)
	if err != nil {
		return false, err
	}
	if !cfg.RenameProject(oldName, newName) {
		return false, nil
	}
	if err := c.config.Save(ctx, cfg); err != nil {
		return false, err
	}

	ledgerErr := c.rewriteLedger(ctx, func(e *core.Entry) bool {
		if e.Project == oldName {
			e.Project = newName
			return true
		}
		return false
	})
	if ledgerErr != nil {
		slog.ErrorContext(ctx, "Project renamed in config but ledger rewrite failed",
			"old", oldName, "new", newName, "error", ledgerErr)
		return true, fmt.Errorf("%w: %v", ErrPartialCascade, ledgerErr)
	}

	slog.InfoContext(ctx, "Project renamed", "old", oldName, "new", newName)
	return true, nil
}

// rewriteLedger loads the full ledger, applies fn to every entry, and
// replaces the store only when at least one row changed.
func (c *Cascade) rewriteLedger(ctx context.Context, fn func(*core.Entry) bool) error {
	entries, _, err := c.ledger.Load(ctx)
	if err != nil {
		return err
	}
	changed := 0
	for i := range entries {
		if fn(&entries[i]) {
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	return c.ledger.ReplaceAll(ctx, entries)
}
