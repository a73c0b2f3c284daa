package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/sheets"
)

// ConfigStore owns the project catalog, the category schema, and the
// per-project item catalogs and price tables. The whole document is serialized
// as one JSON blob into a single cell of the config sheet; Save is always a
// whole-document overwrite.
type ConfigStore struct {
	cells interface {
		sheets.CellReader
		sheets.CellWriter
	}
}

func NewConfigStore(cells sheets.Store) *ConfigStore {
	return &ConfigStore{cells: cells}
}

// Load fetches and deserializes the configuration. An absent or malformed
// document is replaced with the built-in default schema and persisted.
// Structural gaps in an otherwise valid document are backfilled.
func (s *ConfigStore) Load(ctx context.Context) (core.Config, error) {
	raw, err := s.cells.ReadCell(ctx, sheets.ConfigSheet, sheets.ConfigCell)
	if err != nil {
		return core.Config{}, fmt.Errorf("%w: load config: %v", ErrUnavailable, err)
	}
	if raw == "" {
		return s.reset(ctx, "absent")
	}
	var cfg core.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil || len(cfg.Projects) == 0 {
		return s.reset(ctx, "malformed")
	}
	cfg.Backfill()
	return cfg, nil
}

// Save serializes and persists the entire configuration document.
func (s *ConfigStore) Save(ctx context.Context, cfg core.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.cells.WriteCell(ctx, sheets.ConfigSheet, sheets.ConfigCell, string(raw)); err != nil {
		return fmt.Errorf("%w: save config: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *ConfigStore) reset(ctx context.Context, reason string) (core.Config, error) {
	slog.WarnContext(ctx, "Initializing default configuration", "reason", reason)
	cfg := core.DefaultConfig()
	if err := s.Save(ctx, cfg); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

// AddProject appends a project and seeds its item catalog. Returns false
// without persisting on a duplicate name.
func (s *ConfigStore) AddProject(ctx context.Context, name string) (bool, error) {
	return s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		return cfg.AddProject(name), nil
	})
}

// AddCategory appends a category definition and an empty item list for it
// under every project. Returns false on a duplicate key.
func (s *ConfigStore) AddCategory(ctx context.Context, key, display string, kind core.CategoryKind) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("add category %q: invalid kind %q", key, kind)
	}
	return s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		return cfg.AddCategory(key, display, kind), nil
	})
}

// RenameCategoryDisplay updates only the display label at index; key and kind
// are untouched.
func (s *ConfigStore) RenameCategoryDisplay(ctx context.Context, index int, display string) (bool, error) {
	return s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		return cfg.RenameCategoryDisplay(index, display), nil
	})
}

// AddItem appends an item to a project/category list. The key must exist in
// the category schema; a list is never created for a key the schema does not
// define.
func (s *ConfigStore) AddItem(ctx context.Context, project, key, name string) (bool, error) {
	return s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		if _, ok := cfg.Kind(key); !ok {
			return false, fmt.Errorf("add item %q: %w: %q", name, core.ErrUnknownCategory, key)
		}
		return cfg.AddItem(project, key, name), nil
	})
}

// DeleteItem removes an item from the selectable list. Existing ledger rows
// referencing the name are left as-is.
func (s *ConfigStore) DeleteItem(ctx context.Context, project, key, name string) (bool, error) {
	return s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		return cfg.DeleteItem(project, key, name), nil
	})
}

// SetPrice upserts the default unit price and unit for an item. Like AddItem
// it refuses keys outside the category schema.
func (s *ConfigStore) SetPrice(ctx context.Context, project, key, name string, price float64, unit string) error {
	_, err := s.mutate(ctx, func(cfg *core.Config) (bool, error) {
		if _, ok := cfg.Kind(key); !ok {
			return false, fmt.Errorf("set price for %q: %w: %q", name, core.ErrUnknownCategory, key)
		}
		cfg.SetPrice(project, key, name, price, unit)
		return true, nil
	})
	return err
}

// mutate runs one load-modify-save cycle. The document is only persisted when
// fn reports a change.
func (s *ConfigStore) mutate(ctx context.Context, fn func(*core.Config) (bool, error)) (bool, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	changed, err := fn(&cfg)
	if err != nil || !changed {
		return false, err
	}
	if err := s.Save(ctx, cfg); err != nil {
		return false, err
	}
	return true, nil
}
