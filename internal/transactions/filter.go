package transactions

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter holds the optional list criteria. Nil fields impose no
// constraint; the owner constraint is always applied.
type Filter struct {
	Start         *time.Time
	End           *time.Time
	Status        *Status
	Type          *TxType
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	Category      *string
	SenderBank    *string
	RecipientBank *string
	RecipientINN  *string
}

// startOfDay and endOfDay pin the date range to whole calendar days, so
// a single-day range covers that entire day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}

// Where compiles the filter into a SQL conjunction and its positional
// args. The owner condition always comes first.
func (f Filter) Where(ownerID string) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{ownerID}

	add := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.Start != nil {
		add("date_time >= $%d", startOfDay(*f.Start))
	}
	if f.End != nil {
		add("date_time <= $%d", endOfDay(*f.End))
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.Type != nil {
		add("transaction_type = $%d", string(*f.Type))
	}
	if f.MinAmount != nil {
		add("amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("amount <= $%d", *f.MaxAmount)
	}
	if f.Category != nil {
		add("category = $%d", *f.Category)
	}
	if f.SenderBank != nil {
		add("sender_bank = $%d", *f.SenderBank)
	}
	if f.RecipientBank != nil {
		add("recipient_bank = $%d", *f.RecipientBank)
	}
	if f.RecipientINN != nil {
		add("recipient_inn = $%d", *f.RecipientINN)
	}

	return strings.Join(conds, " AND "), args
}
