package stats

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

// Querier is the slice of pgxpool.Pool the aggregate queries need.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	DB Querier
}

type PeriodCount struct {
	Period string `json:"period"` // YYYY-MM
	Count  int64  `json:"count"`
}

type TypeCount struct {
	Type  transactions.TxType `json:"type"`
	Count int64               `json:"count"`
}

type StatusCount struct {
	Status transactions.Status `json:"status"`
	Count  int64               `json:"count"`
}

type BankCount struct {
	Bank  string `json:"bank"` // empty string for rows without a bank
	Count int64  `json:"count"`
}

type Sums struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Overview is the six-part aggregate over one filtered transaction set.
type Overview struct {
	Monthly         []PeriodCount `json:"monthly"`
	ByType          []TypeCount   `json:"by_type"`
	Sums            Sums          `json:"sums"`
	ByStatus        []StatusCount `json:"by_status"`
	BySenderBank    []BankCount   `json:"by_sender_bank"`
	ByRecipientBank []BankCount   `json:"by_recipient_bank"`
}

// GetOverview computes all six views over the identically filtered set.
// Each view is its own scan; the compiled WHERE clause is shared so they
// cannot drift apart.
func (r Repo) GetOverview(ctx context.Context, ownerID string, f transactions.Filter) (Overview, error) {
	where, args := f.Where(ownerID)
	var ov Overview

	rows, err := r.DB.Query(ctx, `
		SELECT to_char(date_trunc('month', date_time), 'YYYY-MM') AS period, COUNT(*)::bigint
		FROM transactions
		WHERE `+where+`
		GROUP BY 1
		ORDER BY 1 ASC
	`, args...)
	if err != nil {
		return Overview{}, err
	}
	ov.Monthly = make([]PeriodCount, 0)
	for rows.Next() {
		var p PeriodCount
		if err := rows.Scan(&p.Period, &p.Count); err != nil {
			rows.Close()
			return Overview{}, err
		}
		ov.Monthly = append(ov.Monthly, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Overview{}, err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT transaction_type, COUNT(*)::bigint
		FROM transactions
		WHERE `+where+`
		GROUP BY 1
	`, args...)
	if err != nil {
		return Overview{}, err
	}
	ov.ByType = make([]TypeCount, 0)
	for rows.Next() {
		var tc TypeCount
		var typ string
		if err := rows.Scan(&typ, &tc.Count); err != nil {
			rows.Close()
			return Overview{}, err
		}
		tc.Type = transactions.TxType(typ)
		ov.ByType = append(ov.ByType, tc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Overview{}, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount END), 0)::float8,
			COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN amount END), 0)::float8
		FROM transactions
		WHERE `+where,
		args...,
	).Scan(&ov.Sums.Income, &ov.Sums.Expense)
	if err != nil {
		return Overview{}, err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT status, COUNT(*)::bigint
		FROM transactions
		WHERE `+where+`
		GROUP BY 1
	`, args...)
	if err != nil {
		return Overview{}, err
	}
	ov.ByStatus = make([]StatusCount, 0)
	for rows.Next() {
		var sc StatusCount
		var status string
		if err := rows.Scan(&status, &sc.Count); err != nil {
			rows.Close()
			return Overview{}, err
		}
		sc.Status = transactions.Status(status)
		ov.ByStatus = append(ov.ByStatus, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Overview{}, err
	}

	if ov.BySenderBank, err = r.bankCounts(ctx, "sender_bank", where, args); err != nil {
		return Overview{}, err
	}
	if ov.ByRecipientBank, err = r.bankCounts(ctx, "recipient_bank", where, args); err != nil {
		return Overview{}, err
	}

	return ov, nil
}

func (r Repo) bankCounts(ctx context.Context, column, where string, args []any) ([]BankCount, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(`+column+`, ''), COUNT(*)::bigint
		FROM transactions
		WHERE `+where+`
		GROUP BY 1
		ORDER BY 2 DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BankCount, 0)
	for rows.Next() {
		var b BankCount
		if err := rows.Scan(&b.Bank, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
