package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

type recordedQuery struct {
	sql  string
	args []any
}

// fakeDB records every statement instead of hitting Postgres.
type fakeDB struct {
	queries []recordedQuery
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, recordedQuery{sql: sql, args: args})
	return emptyRows{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, recordedQuery{sql: sql, args: args})
	return sumsRow{}
}

type emptyRows struct {
	pgx.Rows
}

func (emptyRows) Next() bool { return false }
func (emptyRows) Close()     {}
func (emptyRows) Err() error { return nil }

type sumsRow struct{}

func (sumsRow) Scan(dest ...any) error {
	*dest[0].(*float64) = 150
	*dest[1].(*float64) = 0
	return nil
}

func TestGetOverviewSharesFilterAcrossViews(t *testing.T) {
	const owner = "11111111-1111-1111-1111-111111111111"
	txType := transactions.TypeIncome
	f := transactions.Filter{Type: &txType}

	db := &fakeDB{}
	ov, err := Repo{DB: db}.GetOverview(context.Background(), owner, f)
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}

	if len(db.queries) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(db.queries))
	}

	wantWhere := "user_id = $1 AND transaction_type = $2"
	for i, q := range db.queries {
		if !strings.Contains(q.sql, wantWhere) {
			t.Errorf("statement %d missing shared filter clause:\n%s", i, q.sql)
		}
		if len(q.args) != 2 || q.args[0] != owner || q.args[1] != "income" {
			t.Errorf("statement %d args = %v, want [%s income]", i, q.args, owner)
		}
	}

	if !strings.Contains(db.queries[0].sql, "ORDER BY 1 ASC") {
		t.Error("monthly view must be ordered by period ascending")
	}

	if ov.Sums.Income != 150 || ov.Sums.Expense != 0 {
		t.Errorf("sums not propagated: %+v", ov.Sums)
	}
	if ov.Monthly == nil || ov.ByType == nil || ov.ByStatus == nil ||
		ov.BySenderBank == nil || ov.ByRecipientBank == nil {
		t.Error("empty views must come back as empty slices")
	}
}
