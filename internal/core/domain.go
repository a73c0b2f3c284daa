package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	KindText  CategoryKind = "text"
	KindUsage CategoryKind = "usage"
	KindCost  CategoryKind = "cost"
)

// DateLayout is the canonical serialized form of a ledger date.
const DateLayout = "2006-01-02"

// MonthLayout is the derived year-month form, e.g. "2025-03".
const MonthLayout = "2006-01"

type (
	// CategoryKind determines how an entry's total is computed: cost entries
	// carry quantity x unit price, text and usage entries always total zero.
	CategoryKind string

	Date struct {
		time.Time
	}

	// Entry is one ledger row: a single logged activity on a date within a
	// project. The month column of the persisted layout is derived from Date
	// and never stored as authoritative.
	Entry struct {
		Date       Date
		Project    string
		Category   string // CategoryDef key
		Name       string
		Unit       string
		Quantity   float64
		UnitPrice  float64
		Total      float64
		Note       string
		Attachment string // optional attachment reference, carried in the note column on the wire
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyProject    = errors.New("empty project")
	ErrUnknownCategory = errors.New("unknown category")
	ErrDuplicateName   = errors.New("name already exists")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts the canonical layout plus the variants historical rows
// were written with. Unparseable input is an error, never a zero date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// String returns the canonical serialized form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Month returns the date truncated to year-month.
func (d Date) Month() string {
	return d.Format(MonthLayout)
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (k CategoryKind) IsValid() bool {
	switch k {
	case KindText, KindUsage, KindCost:
		return true
	default:
		return false
	}
}

// TotalFor computes the monetary total for a kind: quantity x unit price for
// cost entries, zero for everything else regardless of the supplied price.
func TotalFor(kind CategoryKind, quantity, unitPrice float64) float64 {
	if kind == KindCost {
		return quantity * unitPrice
	}
	return 0
}

// Month returns the entry's derived year-month, always recomputed from Date.
func (e Entry) Month() string {
	return e.Date.Month()
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Project) == "" {
		return ErrEmptyProject
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrUnknownCategory
	}
	return nil
}

// ParseNumber coerces a sheet cell to a float, defaulting non-numeric or
// missing values to zero. Decimal commas are normalized the way some locales
// write them back into the sheet.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatNumber serializes a numeric cell without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
