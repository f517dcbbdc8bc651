package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"leaveledger/internal/interfaces"
	"leaveledger/internal/models"
)

// Sheet layout: A=nickname, B=join date, C=entitlement, D=used, E=remaining.
const rowWidth = 5

// joinDateLayout is the fixed textual format of the join-date column.
const joinDateLayout = "2006.01.02"

// Accessor mediates between the typed domain rows and the raw string
// snapshot held by the external sheet. It owns all conversion and the
// recalculation pass; nothing else in the system touches raw cells.
//
// Recalculation is pure and total: malformed numeric or date cells degrade
// to zero instead of failing, which keeps the ledger self-healing against
// manual spreadsheet edits.
type Accessor struct {
	store interfaces.SheetStore
	now   func() time.Time
}

// NewAccessor creates an Accessor over the given store. A nil clock defaults
// to time.Now; tests inject a fixed clock to pin tenure calculations.
func NewAccessor(store interfaces.SheetStore, now func() time.Time) *Accessor {
	if now == nil {
		now = time.Now
	}
	return &Accessor{store: store, now: now}
}

// FetchAll reads the whole tracked range and converts it to typed rows.
// Rows missing trailing cells are padded with "0" before conversion.
func (a *Accessor) FetchAll(ctx context.Context) ([]models.LedgerRow, error) {
	raw, err := a.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.LedgerRow, 0, len(raw))
	for _, rec := range raw {
		for len(rec) < rowWidth {
			rec = append(rec, "0")
		}
		rows = append(rows, models.LedgerRow{
			Nickname:    rec[0],
			JoinDate:    rec[1],
			Entitlement: parseCell(rec[2]),
			Used:        parseCell(rec[3]),
			Remaining:   parseCell(rec[4]),
		})
	}
	return rows, nil
}

// PersistAll overwrites the entire tracked range with the given rows,
// unconditionally. Callers run Recalculate first so that the derived
// remaining column is never persisted stale.
func (a *Accessor) PersistAll(ctx context.Context, rows []models.LedgerRow) error {
	raw := make([][]string, len(rows))
	for i, row := range rows {
		raw[i] = []string{
			row.Nickname,
			row.JoinDate,
			row.Entitlement.String(),
			row.Used.String(),
			row.Remaining.String(),
		}
	}
	return a.store.PersistAll(ctx, raw)
}

// Recalculate derives entitlement and remaining for every row:
//   - tenure under 12 months overwrites entitlement with months worked
//   - remaining = entitlement - used
//
// The input slice is not mutated.
func (a *Accessor) Recalculate(rows []models.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, len(rows))
	for i, row := range rows {
		if m := a.MonthsWorked(row.JoinDate); m < 12 {
			row.Entitlement = decimal.NewFromInt(int64(m))
		}
		row.Remaining = row.Entitlement.Sub(row.Used)
		out[i] = row
	}
	return out
}

// MonthsWorked returns whole calendar months between the join date and now.
// An unparseable join date counts as zero months.
func (a *Accessor) MonthsWorked(joinDate string) int {
	d, err := time.Parse(joinDateLayout, strings.TrimSpace(joinDate))
	if err != nil {
		return 0
	}
	now := a.now()
	return (now.Year()-d.Year())*12 + int(now.Month()) - int(d.Month())
}

// Remaining returns the stored remaining balance for the given nickname,
// matched case-insensitively, or "0" when the nickname is not tracked.
// It reads the live snapshot without recalculating; stale derived cells are
// healed by the next resolution's persist.
func (a *Accessor) Remaining(ctx context.Context, nickname string) (string, error) {
	rows, err := a.FetchAll(ctx)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if strings.EqualFold(row.Nickname, nickname) {
			return row.Remaining.String(), nil
		}
	}
	return "0", nil
}

func parseCell(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
