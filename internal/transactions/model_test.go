package transactions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTx() Transaction {
	return Transaction{
		PersonType:   PersonIndividual,
		DateTime:     time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		Type:         TypeIncome,
		Amount:       decimal.RequireFromString("100.50"),
		Status:       StatusNew,
		RecipientINN: "1234567890",
	}
}

func TestValidate(t *testing.T) {
	phone := func(s string) *string { return &s }

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr string
	}{
		{"valid", func(tx *Transaction) {}, ""},
		{"inn 11 digits", func(tx *Transaction) { tx.RecipientINN = "12345678901" }, ""},
		{"inn too short", func(tx *Transaction) { tx.RecipientINN = "12345" }, "recipient_inn"},
		{"inn with letters", func(tx *Transaction) { tx.RecipientINN = "12345abcde" }, "recipient_inn"},
		{"inn 12 digits", func(tx *Transaction) { tx.RecipientINN = "123456789012" }, "recipient_inn"},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-5") }, "amount"},
		{"amount over cap", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("1000000") }, "amount"},
		{"amount at cap", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("999999.99999") }, ""},
		{"phone plus seven", func(tx *Transaction) { tx.RecipientPhone = phone("+79991234567") }, ""},
		{"phone eight", func(tx *Transaction) { tx.RecipientPhone = phone("89991234567") }, ""},
		{"phone bad prefix", func(tx *Transaction) { tx.RecipientPhone = phone("79991234567") }, "recipient_phone"},
		{"phone too short", func(tx *Transaction) { tx.RecipientPhone = phone("+7999123456") }, "recipient_phone"},
		{"unknown status", func(tx *Transaction) { tx.Status = "paused" }, "status"},
		{"zero date_time", func(tx *Transaction) { tx.DateTime = time.Time{} }, "date_time"},
		{"unknown person type", func(tx *Transaction) { tx.PersonType = "robot" }, "person_type"},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, "transaction_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantErr {
				t.Fatalf("expected error on %q, got %q", tt.wantErr, vErr.Field)
			}
		})
	}
}

func TestPatchApplyKeepsUnsuppliedFields(t *testing.T) {
	comment := "salary"
	bank := "Alfa"
	original := validTx()
	original.ID = 7
	original.Comment = &comment
	original.RecipientBank = &bank

	newAmount := decimal.RequireFromString("250")
	newStatus := StatusCompleted
	merged := Patch{Amount: &newAmount, Status: &newStatus}.Apply(original)

	if !merged.Amount.Equal(newAmount) {
		t.Errorf("amount not applied: %s", merged.Amount)
	}
	if merged.Status != StatusCompleted {
		t.Errorf("status not applied: %s", merged.Status)
	}
	if merged.ID != 7 || merged.Type != TypeIncome || merged.RecipientINN != original.RecipientINN {
		t.Error("identity fields changed")
	}
	if merged.Comment == nil || *merged.Comment != comment {
		t.Error("comment should be untouched")
	}
	if merged.RecipientBank == nil || *merged.RecipientBank != bank {
		t.Error("recipient bank should be untouched")
	}
	if !merged.DateTime.Equal(original.DateTime) {
		t.Error("date_time should be untouched")
	}
}

func TestPatchApplyEmptyIsNoop(t *testing.T) {
	original := validTx()
	merged := Patch{}.Apply(original)
	if !merged.Amount.Equal(original.Amount) || merged.Status != original.Status ||
		merged.PersonType != original.PersonType || merged.RecipientINN != original.RecipientINN {
		t.Error("empty patch must not change any field")
	}
}

func TestPatchExplicitNullClearsField(t *testing.T) {
	comment := "salary"
	bank := "Alfa"
	category := "Payroll"
	original := validTx()
	original.Comment = &comment
	original.RecipientBank = &bank
	original.Category = &category

	var p Patch
	body := []byte(`{"comment": null, "recipient_bank": null, "amount": 250}`)
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	merged := p.Apply(original)

	if merged.Comment != nil {
		t.Errorf("explicit null did not clear comment; still %q", *merged.Comment)
	}
	if merged.RecipientBank != nil {
		t.Errorf("explicit null did not clear recipient bank; still %q", *merged.RecipientBank)
	}
	if merged.Category == nil || *merged.Category != category {
		t.Error("absent key must leave category untouched")
	}
	if !merged.Amount.Equal(decimal.RequireFromString("250")) {
		t.Errorf("amount not applied: %s", merged.Amount)
	}
}

func TestPatchNullOnRequiredFieldRejected(t *testing.T) {
	var p Patch
	if err := json.Unmarshal([]byte(`{"recipient_inn": null}`), &p); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	merged := p.Apply(validTx())
	err := merged.Validate()
	vErr, ok := err.(*ValidationError)
	if !ok || vErr.Field != "recipient_inn" {
		t.Fatalf("expected validation error on recipient_inn, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	if got := StatusCompleted.Label(); got != "Платеж выполнен" {
		t.Errorf("status label: %q", got)
	}
	if got := TypeIncome.Label(); got != "Поступление" {
		t.Errorf("type label: %q", got)
	}
	if got := PersonLegal.Label(); got != "Юридическое лицо" {
		t.Errorf("person label: %q", got)
	}
	if Status("nope").Valid() {
		t.Error("unknown status must not be valid")
	}
}
