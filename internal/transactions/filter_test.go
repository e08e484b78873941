package transactions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const owner = "11111111-1111-1111-1111-111111111111"

func TestWhereOwnerOnly(t *testing.T) {
	where, args := Filter{}.Where(owner)
	if where != "user_id = $1" {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 1 || args[0] != owner {
		t.Fatalf("args = %v", args)
	}
}

func TestWhereAllCriteria(t *testing.T) {
	start := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	status := StatusConfirmed
	typ := TypeExpense
	minA := decimal.RequireFromString("10")
	maxA := decimal.RequireFromString("500")
	category := "food"
	sBank := "Sber"
	rBank := "Tinkoff"
	inn := "1234567890"

	f := Filter{
		Start: &start, End: &end,
		Status: &status, Type: &typ,
		MinAmount: &minA, MaxAmount: &maxA,
		Category: &category, SenderBank: &sBank,
		RecipientBank: &rBank, RecipientINN: &inn,
	}

	where, args := f.Where(owner)
	want := "user_id = $1 AND date_time >= $2 AND date_time <= $3 AND status = $4" +
		" AND transaction_type = $5 AND amount >= $6 AND amount <= $7 AND category = $8" +
		" AND sender_bank = $9 AND recipient_bank = $10 AND recipient_inn = $11"
	if where != want {
		t.Fatalf("where = %q\nwant    %q", where, want)
	}
	if len(args) != 11 {
		t.Fatalf("got %d args", len(args))
	}
	if args[3] != "confirmed" || args[4] != "expense" {
		t.Errorf("enum args = %v %v", args[3], args[4])
	}
	if args[10] != inn {
		t.Errorf("inn arg = %v", args[10])
	}
}

func TestWhereDayBoundaries(t *testing.T) {
	day := time.Date(2024, 3, 5, 15, 45, 12, 0, time.UTC)
	f := Filter{Start: &day, End: &day}

	_, args := f.Where(owner)

	gotStart := args[1].(time.Time)
	if !gotStart.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start of day = %v", gotStart)
	}

	gotEnd := args[2].(time.Time)
	if !gotEnd.Equal(time.Date(2024, 3, 5, 23, 59, 59, 999999000, time.UTC)) {
		t.Errorf("end of day = %v", gotEnd)
	}
	// a single-day range must cover the whole day
	if !gotStart.Before(gotEnd) {
		t.Error("start must precede end for a single-day range")
	}
}

func TestWherePlaceholdersSkipUnset(t *testing.T) {
	category := "taxi"
	inn := "12345678901"
	where, args := Filter{Category: &category, RecipientINN: &inn}.Where(owner)
	want := "user_id = $1 AND category = $2 AND recipient_inn = $3"
	if where != want {
		t.Fatalf("where = %q", where)
	}
	if args[1] != "taxi" || args[2] != inn {
		t.Fatalf("args = %v", args)
	}
}
