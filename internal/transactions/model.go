package transactions

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

type PersonType string

const (
	PersonIndividual PersonType = "individual"
	PersonLegal      PersonType = "legal"
)

type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusCanceled   Status = "canceled"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
	StatusRefund     Status = "refund"
)

// Display labels live here rather than on the enum tags so the stored
// values stay locale-neutral; only the rendering boundary touches them.
var (
	personTypeLabels = map[PersonType]string{
		PersonIndividual: "Физическое лицо",
		PersonLegal:      "Юридическое лицо",
	}
	typeLabels = map[TxType]string{
		TypeIncome:  "Поступление",
		TypeExpense: "Списание",
	}
	statusLabels = map[Status]string{
		StatusNew:        "Новая",
		StatusConfirmed:  "Подтвержденная",
		StatusProcessing: "В обработке",
		StatusCanceled:   "Отменена",
		StatusCompleted:  "Платеж выполнен",
		StatusDeleted:    "Платеж удален",
		StatusRefund:     "Возврат",
	}
)

func (p PersonType) Valid() bool { return personTypeLabels[p] != "" }
func (t TxType) Valid() bool     { return typeLabels[t] != "" }
func (s Status) Valid() bool     { return statusLabels[s] != "" }

func (p PersonType) Label() string { return personTypeLabels[p] }
func (t TxType) Label() string     { return typeLabels[t] }
func (s Status) Label() string     { return statusLabels[s] }

type Transaction struct {
	ID               int64           `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	PersonType       PersonType      `db:"person_type" json:"person_type"`
	DateTime         time.Time       `db:"date_time" json:"date_time"`
	Type             TxType          `db:"transaction_type" json:"transaction_type"`
	Comment          *string         `db:"comment" json:"comment,omitempty"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Status           Status          `db:"status" json:"status"`
	SenderBank       *string         `db:"sender_bank" json:"sender_bank,omitempty"`
	SenderAccount    *string         `db:"sender_account" json:"sender_account,omitempty"`
	RecipientBank    *string         `db:"recipient_bank" json:"recipient_bank,omitempty"`
	RecipientINN     string          `db:"recipient_inn" json:"recipient_inn"`
	RecipientAccount *string         `db:"recipient_account" json:"recipient_account,omitempty"`
	Category         *string         `db:"category" json:"category,omitempty"`
	RecipientPhone   *string         `db:"recipient_phone" json:"recipient_phone,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

var (
	innPattern   = regexp.MustCompile(`^\d{10,11}$`)
	phonePattern = regexp.MustCompile(`^(\+7|8)\d{10}$`)
	maxAmount    = decimal.RequireFromString("999999.99999")
)

// ValidationError reports a field that failed the domain invariants.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the domain invariants before persistence.
func (t *Transaction) Validate() error {
	if !t.PersonType.Valid() {
		return &ValidationError{Field: "person_type", Reason: "must be individual or legal"}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "transaction_type", Reason: "must be income or expense"}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	if t.DateTime.IsZero() {
		return &ValidationError{Field: "date_time", Reason: "required"}
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if t.Amount.GreaterThan(maxAmount) {
		return &ValidationError{Field: "amount", Reason: "must not exceed 999999.99999"}
	}
	if !innPattern.MatchString(t.RecipientINN) {
		return &ValidationError{Field: "recipient_inn", Reason: "must be 10 or 11 digits"}
	}
	if t.RecipientPhone != nil && !phonePattern.MatchString(*t.RecipientPhone) {
		return &ValidationError{Field: "recipient_phone", Reason: "must be +7 or 8 followed by 10 digits"}
	}
	return nil
}

// Patch carries a sparse set of field overrides for a partial update.
// Absent fields keep their prior values; an explicitly supplied null
// clears an optional field. The transaction type is fixed at creation
// and cannot be patched.
type Patch struct {
	PersonType       *PersonType      `json:"person_type"`
	DateTime         *time.Time       `json:"date_time"`
	Comment          *string          `json:"comment"`
	Amount           *decimal.Decimal `json:"amount"`
	Status           *Status          `json:"status"`
	SenderBank       *string          `json:"sender_bank"`
	SenderAccount    *string          `json:"sender_account"`
	RecipientBank    *string          `json:"recipient_bank"`
	RecipientINN     *string          `json:"recipient_inn"`
	RecipientAccount *string          `json:"recipient_account"`
	Category         *string          `json:"category"`
	RecipientPhone   *string          `json:"recipient_phone"`

	present map[string]bool
}

// UnmarshalJSON records which keys the body carried so Apply can tell an
// explicit null from an absent field.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type patchFields Patch
	var fields patchFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*p = Patch(fields)
	if len(keys) > 0 {
		p.present = make(map[string]bool, len(keys))
		for k := range keys {
			p.present[k] = true
		}
	}
	return nil
}

// has reports whether a field was supplied. Patches built in code have
// no key record; there, pointer presence decides.
func (p Patch) has(key string, ptrSet bool) bool {
	if p.present == nil {
		return ptrSet
	}
	return p.present[key]
}

func orZero[T any](ptr *T) T {
	if ptr != nil {
		return *ptr
	}
	var zero T
	return zero
}

// Apply merges the supplied fields into a copy of t and returns it.
// Nullable fields take the supplied value directly, so null clears them;
// a null on a required field leaves a zero value for Validate to reject.
func (p Patch) Apply(t Transaction) Transaction {
	if p.has("person_type", p.PersonType != nil) {
		t.PersonType = orZero(p.PersonType)
	}
	if p.has("date_time", p.DateTime != nil) {
		t.DateTime = orZero(p.DateTime)
	}
	if p.has("comment", p.Comment != nil) {
		t.Comment = p.Comment
	}
	if p.has("amount", p.Amount != nil) {
		t.Amount = orZero(p.Amount)
	}
	if p.has("status", p.Status != nil) {
		t.Status = orZero(p.Status)
	}
	if p.has("sender_bank", p.SenderBank != nil) {
		t.SenderBank = p.SenderBank
	}
	if p.has("sender_account", p.SenderAccount != nil) {
		t.SenderAccount = p.SenderAccount
	}
	if p.has("recipient_bank", p.RecipientBank != nil) {
		t.RecipientBank = p.RecipientBank
	}
	if p.has("recipient_inn", p.RecipientINN != nil) {
		t.RecipientINN = orZero(p.RecipientINN)
	}
	if p.has("recipient_account", p.RecipientAccount != nil) {
		t.RecipientAccount = p.RecipientAccount
	}
	if p.has("category", p.Category != nil) {
		t.Category = p.Category
	}
	if p.has("recipient_phone", p.RecipientPhone != nil) {
		t.RecipientPhone = p.RecipientPhone
	}
	return t
}
