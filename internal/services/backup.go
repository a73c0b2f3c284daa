package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"sitelog/internal/core"
	"sitelog/internal/store"
)

const (
	bundleConfigName = "config.json"
	bundleLedgerName = "ledger.json"
)

// bundleEntry is the archived form of a ledger row. The attachment reference
// stays a structured field inside the bundle; only the sheet embeds it in the
// note column.
type bundleEntry struct {
	Date       string  `json:"date"`
	Project    string  `json:"project"`
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Total      float64 `json:"total"`
	Note       string  `json:"note"`
	Attachment string  `json:"attachment_ref,omitempty"`
}

// Backup exports and restores the full ledger plus the full configuration
// document as one zip archive.
type Backup struct {
	config *store.ConfigStore
	ledger *store.LedgerStore
}

func NewBackup(config *store.ConfigStore, ledger *store.LedgerStore) *Backup {
	return &Backup{config: config, ledger: ledger}
}

// Export writes a zip archive holding config.json and ledger.json.
func (b *Backup) Export(ctx context.Context, w io.Writer) error {
	cfg, err := b.config.Load(ctx)
	if err != nil {
		return err
	}
	entries, _, err := b.ledger.Load(ctx)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	cw, err := zw.Create(bundleConfigName)
	if err != nil {
		return fmt.Errorf("create %s: %w", bundleConfigName, err)
	}
	if err := json.NewEncoder(cw).Encode(cfg); err != nil {
		return fmt.Errorf("encode %s: %w", bundleConfigName, err)
	}

	rows := make([]bundleEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, bundleEntry{
			Date:       e.Date.String(),
			Project:    e.Project,
			Category:   e.Category,
			Name:       e.Name,
			Unit:       e.Unit,
			Quantity:   e.Quantity,
			UnitPrice:  e.UnitPrice,
			Total:      e.Total,
			Note:       e.Note,
			Attachment: e.Attachment,
		})
	}
	lw, err := zw.Create(bundleLedgerName)
	if err != nil {
		return fmt.Errorf("create %s: %w", bundleLedgerName, err)
	}
	if err := json.NewEncoder(lw).Encode(rows); err != nil {
		return fmt.Errorf("encode %s: %w", bundleLedgerName, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	return nil
}

// Restore replaces both stores wholesale from an uploaded bundle, applying
// the same validation as a normal load: entries with unparseable dates are
// dropped and the configuration document is backfilled.
func (b *Backup) Restore(ctx context.Context, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}

	var cfg core.Config
	if err := readBundleJSON(zr, bundleConfigName, &cfg); err != nil {
		return err
	}
	if len(cfg.Projects) == 0 {
		return fmt.Errorf("bundle %s: no projects", bundleConfigName)
	}
	cfg.Backfill()

	var rows []bundleEntry
	if err := readBundleJSON(zr, bundleLedgerName, &rows); err != nil {
		return err
	}
	entries := make([]core.Entry, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, core.Entry{
			Date:       d,
			Project:    r.Project,
			Category:   r.Category,
			Name:       r.Name,
			Unit:       r.Unit,
			Quantity:   r.Quantity,
			UnitPrice:  r.UnitPrice,
			Total:      r.Total,
			Note:       r.Note,
			Attachment: r.Attachment,
		})
	}

	if err := b.config.Save(ctx, cfg); err != nil {
		return err
	}
	if err := b.ledger.ReplaceAll(ctx, entries); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Bundle restored",
		"projects", len(cfg.Projects),
		"entries", len(entries),
		"dropped", dropped)
	return nil
}

func readBundleJSON(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("bundle missing %s: %w", name, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
