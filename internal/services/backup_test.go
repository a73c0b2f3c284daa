package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"sitelog/internal/core"
	"sitelog/internal/sheets/memory"
	"sitelog/internal/store"
)

func newBackupFixture(t *testing.T) (*Backup, *store.ConfigStore, *store.LedgerStore, context.Context) {
	t.Helper()
	ctx := context.Background()
	mem := memory.New()
	cs := store.NewConfigStore(mem)
	ls := store.NewLedgerStore(mem)
	return NewBackup(cs, ls), cs, ls, ctx
}

func TestBackupExportRestoreRoundTrip(t *testing.T) {
	b, cs, ls, ctx := newBackupFixture(t)

	cfg := core.DefaultConfig()
	cfg.AddProject("ProjA")
	cfg.SetPrice("ProjA", "labor", "Masonry", 2500, "day")
	if err := cs.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	ledger := []core.Entry{
		entry(core.NewDate(2025, 3, 1), "ProjA", "labor", "Masonry", 2, 2500, 5000),
		{Date: core.NewDate(2025, 3, 2), Project: "ProjA", Category: "work-note", Name: "Rain delay", Unit: "ea", Quantity: 1, Note: "half day", Attachment: "ref-42"},
	}
	if err := ls.ReplaceAll(ctx, ledger); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := b.Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	// Restore into a fresh store pair.
	b2, cs2, ls2, _ := newBackupFixture(t)
	if err := b2.Restore(ctx, buf.Bytes()); err != nil {
		t.Fatal(err)
	}

	gotCfg, err := cs2.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !gotCfg.HasProject("ProjA") {
		t.Errorf("restored config lost ProjA: %v", gotCfg.Projects)
	}
	if p, ok := gotCfg.PriceFor("ProjA", "labor", "Masonry"); !ok || p.Price != 2500 {
		t.Errorf("restored price = %+v ok=%v", p, ok)
	}

	gotLedger, _, err := ls2.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotLedger, ledger) {
		t.Errorf("restored ledger:\n got %+v\nwant %+v", gotLedger, ledger)
	}
	// The attachment reference survived as a structured field.
	if gotLedger[1].Attachment != "ref-42" || gotLedger[1].Note != "half day" {
		t.Errorf("attachment did not round-trip: %+v", gotLedger[1])
	}
}

func makeBundle(t *testing.T, cfg any, rows any) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, v := range map[string]any{bundleConfigName: cfg, bundleLedgerName: rows} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRestoreDropsBadDates(t *testing.T) {
	b, _, ls, ctx := newBackupFixture(t)

	cfg := core.DefaultConfig()
	rows := []bundleEntry{
		{Date: "2025-03-01", Project: "ProjA", Category: "labor", Name: "Masonry", Quantity: 2, UnitPrice: 2500, Total: 5000},
		{Date: "not a date", Project: "ProjA", Category: "labor", Name: "Bad"},
	}
	if err := b.Restore(ctx, makeBundle(t, cfg, rows)); err != nil {
		t.Fatal(err)
	}

	entries, _, err := ls.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "Masonry" {
		t.Errorf("restored entries = %+v, want only the valid row", entries)
	}
}

func TestRestoreRejectsEmptyConfig(t *testing.T) {
	b, _, _, ctx := newBackupFixture(t)

	if err := b.Restore(ctx, makeBundle(t, core.Config{}, []bundleEntry{})); err == nil {
		t.Fatal("restore accepted a config document with no projects")
	}
}

func TestRestoreRejectsNonZip(t *testing.T) {
	b, _, _, ctx := newBackupFixture(t)

	if err := b.Restore(ctx, []byte("not a zip archive")); err == nil {
		t.Fatal("restore accepted a non-zip payload")
	}
}

func TestRestoreRejectsMissingLedgerFile(t *testing.T) {
	b, _, _, ctx := newBackupFixture(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(bundleConfigName)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.NewEncoder(w).Encode(core.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	if err := b.Restore(ctx, buf.Bytes()); err == nil {
		t.Fatal("restore accepted a bundle without ledger.json")
	}
}
