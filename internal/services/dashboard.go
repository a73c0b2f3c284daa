package services

import (
	"context"

	"sitelog/internal/core"
	"sitelog/internal/store"
)

type (
	// Totals aggregates one project's cost figures around a reference date.
	Totals struct {
		Today      float64         `json:"today"`
		Month      float64         `json:"month"`
		Year       float64         `json:"year"`
		Total      float64         `json:"total"`
		ByCategory []CategoryTotal `json:"by_category"`
	}

	CategoryTotal struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
	}
)

// Dashboard computes cost aggregates from the ledger for one project.
type Dashboard struct {
	ledger *store.LedgerStore
}

func NewDashboard(ledger *store.LedgerStore) *Dashboard {
	return &Dashboard{ledger: ledger}
}

// Totals sums entry totals for the project across today, the reference
// month, the reference year, and all time. Per-category sums cover only
// cost-bearing rows, first-seen order preserved.
func (d *Dashboard) Totals(ctx context.Context, project string, ref core.Date) (Totals, error) {
	entries, _, err := d.ledger.Load(ctx)
	if err != nil {
		return Totals{}, err
	}

	year := ref.Format("2006")
	out := Totals{}
	byCat := map[string]float64{}
	var order []string
	for _, e := range entries {
		if e.Project != project {
			continue
		}
		out.Total += e.Total
		if e.Date.SameDay(ref) {
			out.Today += e.Total
		}
		if e.Month() == ref.Month() {
			out.Month += e.Total
		}
		if e.Date.Format("2006") == year {
			out.Year += e.Total
		}
		if e.Total > 0 {
			if _, seen := byCat[e.Category]; !seen {
				order = append(order, e.Category)
			}
			byCat[e.Category] += e.Total
		}
	}
	for _, cat := range order {
		out.ByCategory = append(out.ByCategory, CategoryTotal{Category: cat, Total: byCat[cat]})
	}
	return out, nil
}
