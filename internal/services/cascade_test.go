package services

import (
	"context"
	"errors"
	"testing"

	"sitelog/internal/core"
	"sitelog/internal/sheets/memory"
	"sitelog/internal/store"
)

func newCascadeFixture(t *testing.T) (*Cascade, *store.ConfigStore, *store.LedgerStore, context.Context) {
	t.Helper()
	ctx := context.Background()
	mem := memory.New()
	cs := store.NewConfigStore(mem)
	ls := store.NewLedgerStore(mem)

	cfg := core.DefaultConfig()
	cfg.AddProject("ProjA")
	cfg.AddItem("ProjA", "labor", "Mason")
	cfg.SetPrice("ProjA", "labor", "Mason", 2500, "day")
	if err := cs.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	if err := ls.ReplaceAll(ctx, []core.Entry{
		entry(core.NewDate(2025, 3, 1), "ProjA", "labor", "Mason", 2, 2500, 5000),
		entry(core.NewDate(2025, 3, 2), "ProjA", "equipment", "Crane", 1, 8000, 8000),
	}); err != nil {
		t.Fatal(err)
	}
	return NewCascade(cs, ls), cs, ls, ctx
}

func TestRenameItemCascade(t *testing.T) {
	c, cs, ls, ctx := newCascadeFixture(t)

	changed, err := c.RenameItem(ctx, "ProjA", "labor", "Mason", "MasonV2")
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("rename reported no change")
	}

	cfg, err := cs.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	items := cfg.ItemList("ProjA", "labor")
	found := false
	for _, it := range items {
		if it == "Mason" {
			t.Error("old item name survived in the catalog")
		}
		if it == "MasonV2" {
			found = true
		}
	}
	if !found {
		t.Errorf("new item name missing from catalog: %v", items)
	}

	// The price-table entry moved with the rename.
	if p, ok := cfg.PriceFor("ProjA", "labor", "MasonV2"); !ok || p.Price != 2500 || p.Unit != "day" {
		t.Errorf("price entry did not move: %+v ok=%v", p, ok)
	}
	if _, ok := cfg.PriceFor("ProjA", "labor", "Mason"); ok {
		t.Error("price entry still present under old name")
	}

	// Historical rows carry the new name with amounts untouched.
	entries, _, err := ls.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name == "Mason" {
			t.Error("old item name survived in the ledger")
		}
		if e.Name == "MasonV2" && e.Total != 5000 {
			t.Errorf("renamed row total = %v, want 5000", e.Total)
		}
	}
	// The unrelated crane row is untouched.
	if entries[1].Name != "Crane" || entries[1].Total != 8000 {
		t.Errorf("unrelated row changed: %+v", entries[1])
	}
}

func TestRenameItemNoOps(t *testing.T) {
	c, _, _, ctx := newCascadeFixture(t)

	if changed, err := c.RenameItem(ctx, "ProjA", "labor", "Mason", "Mason"); err != nil || changed {
		t.Errorf("same-name rename: changed=%v err=%v, want false nil", changed, err)
	}
	if changed, err := c.RenameItem(ctx, "ProjA", "labor", "Mason", "Masonry"); err != nil || changed {
		t.Errorf("duplicate-name rename: changed=%v err=%v, want false nil", changed, err)
	}
	if changed, err := c.RenameItem(ctx, "ProjA", "labor", "NoSuch", "X"); err != nil || changed {
		t.Errorf("missing-name rename: changed=%v err=%v, want false nil", changed, err)
	}
}

func TestRenameProjectCascade(t *testing.T) {
	c, cs, ls, ctx := newCascadeFixture(t)

	changed, err := c.RenameProject(ctx, "ProjA", "Riverside Phase 2")
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("rename reported no change")
	}

	cfg, err := cs.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HasProject("ProjA") || !cfg.HasProject("Riverside Phase 2") {
		t.Errorf("project list not updated: %v", cfg.Projects)
	}
	// Item and price subtrees moved with the project.
	if len(cfg.ItemList("Riverside Phase 2", "labor")) == 0 {
		t.Error("item subtree did not move")
	}
	if _, ok := cfg.PriceFor("Riverside Phase 2", "labor", "Mason"); !ok {
		t.Error("price subtree did not move")
	}

	entries, _, err := ls.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Project != "Riverside Phase 2" {
			t.Errorf("row kept old project: %+v", e)
		}
	}
}

func TestRenameProjectConflictNoOp(t *testing.T) {
	c, cs, _, ctx := newCascadeFixture(t)
	if _, err := cs.AddProject(ctx, "ProjB"); err != nil {
		t.Fatal(err)
	}
	if changed, err := c.RenameProject(ctx, "ProjA", "ProjB"); err != nil || changed {
		t.Errorf("conflicting rename: changed=%v err=%v, want false nil", changed, err)
	}
}

type renameFailingStore struct {
	*memory.Store
	failWrites bool
}

func (s *renameFailingStore) OverwriteAll(ctx context.Context, sheet string, rows [][]string) error {
	if s.failWrites {
		return context.DeadlineExceeded
	}
	return s.Store.OverwriteAll(ctx, sheet, rows)
}

func TestRenameItemPartialCascade(t *testing.T) {
	ctx := context.Background()
	mem := &renameFailingStore{Store: memory.New()}
	cs := store.NewConfigStore(mem)
	ls := store.NewLedgerStore(mem)

	cfg := core.DefaultConfig()
	cfg.AddProject("ProjA")
	cfg.AddItem("ProjA", "labor", "Mason")
	if err := cs.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	if err := ls.ReplaceAll(ctx, []core.Entry{
		entry(core.NewDate(2025, 3, 1), "ProjA", "labor", "Mason", 2, 2500, 5000),
	}); err != nil {
		t.Fatal(err)
	}

	// Ledger rewrite fails, config save succeeds: the cascade is half-applied
	// and must say so.
	mem.failWrites = true
	c := NewCascade(cs, ls)
	changed, err := c.RenameItem(ctx, "ProjA", "labor", "Mason", "MasonV2")
	if !changed {
		t.Error("partial cascade should report changed=true")
	}
	if !errors.Is(err, ErrPartialCascade) {
		t.Fatalf("err = %v, want ErrPartialCascade", err)
	}
}
