package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRowsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rows, err := repo.ReadAllRows(ctx, "Ledger")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("fresh db has rows: %v", rows)
	}

	want := [][]string{
		{"date", "project", "category"},
		{"2025-03-01", "ProjA", "labor"},
		{"2025-03-02", "ProjA", ""},
	}
	if err := repo.AppendRow(ctx, "Ledger", want[0]); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendRow(ctx, "Ledger", want[1]); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendRow(ctx, "Ledger", want[2]); err != nil {
		t.Fatal(err)
	}

	rows, err = repo.ReadAllRows(ctx, "Ledger")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows:\n got %v\nwant %v", rows, want)
	}
}

func TestOverwriteReplacesOnlyTargetSheet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.AppendRow(ctx, "Ledger", []string{"old"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendRow(ctx, "Other", []string{"keep"}); err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"new-1"}, {"new-2"}}
	if err := repo.OverwriteAll(ctx, "Ledger", want); err != nil {
		t.Fatal(err)
	}

	rows, err := repo.ReadAllRows(ctx, "Ledger")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ledger rows:\n got %v\nwant %v", rows, want)
	}

	other, err := repo.ReadAllRows(ctx, "Other")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 1 || other[0][0] != "keep" {
		t.Errorf("other sheet changed: %v", other)
	}
}

func TestCellUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	v, err := repo.ReadCell(ctx, "System_Config", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Fatalf("missing cell = %q, want empty", v)
	}

	if err := repo.WriteCell(ctx, "System_Config", "A1", `{"projects":[]}`); err != nil {
		t.Fatal(err)
	}
	if err := repo.WriteCell(ctx, "System_Config", "A1", `{"projects":["ProjA"]}`); err != nil {
		t.Fatal(err)
	}

	v, err = repo.ReadCell(ctx, "System_Config", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if v != `{"projects":["ProjA"]}` {
		t.Errorf("cell = %q", v)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendRow(ctx, "Ledger", []string{"persisted"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	rows, err := repo.ReadAllRows(ctx, "Ledger")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][0] != "persisted" {
		t.Errorf("rows after reopen: %v", rows)
	}
}
