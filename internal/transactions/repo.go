package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// Amounts travel as text so NUMERIC round-trips without precision loss.
const txColumns = `id, user_id::text, person_type, date_time, transaction_type, comment,
	amount::text, status, sender_bank, sender_account, recipient_bank,
	recipient_inn, recipient_account, category, recipient_phone, created_at`

func scanTx(row pgx.Row) (Transaction, error) {
	var t Transaction
	var personType, txType, status, amount string
	err := row.Scan(
		&t.ID, &t.UserID, &personType, &t.DateTime, &txType, &t.Comment,
		&amount, &status, &t.SenderBank, &t.SenderAccount, &t.RecipientBank,
		&t.RecipientINN, &t.RecipientAccount, &t.Category, &t.RecipientPhone, &t.CreatedAt,
	)
	if err != nil {
		return Transaction{}, err
	}
	t.PersonType = PersonType(personType)
	t.Type = TxType(txType)
	t.Status = Status(status)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// List returns every transaction of ownerID matching the filter,
// newest first. An empty result is a valid empty slice, not an error.
func (r *Repo) List(ctx context.Context, ownerID string, f Filter) ([]Transaction, error) {
	where, args := f.Where(ownerID)
	rows, err := r.Pool.Query(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE `+where+` ORDER BY date_time DESC, id DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns the transaction only when it exists and belongs to ownerID.
func (r *Repo) Get(ctx context.Context, id int64, ownerID string) (Transaction, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = $1 AND user_id = $2::uuid`,
		id, ownerID,
	)
	t, err := scanTx(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// Create validates and persists a new transaction for ownerID.
func (r *Repo) Create(ctx context.Context, ownerID string, t Transaction) (Transaction, error) {
	t.UserID = ownerID
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}

	row := r.Pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, person_type, date_time, transaction_type, comment,
			amount, status, sender_bank, sender_account, recipient_bank,
			recipient_inn, recipient_account, category, recipient_phone)
		VALUES ($1::uuid, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+txColumns,
		ownerID, string(t.PersonType), t.DateTime, string(t.Type), t.Comment,
		t.Amount.String(), string(t.Status), t.SenderBank, t.SenderAccount, t.RecipientBank,
		t.RecipientINN, t.RecipientAccount, t.Category, t.RecipientPhone,
	)
	return scanTx(row)
}

// Update fetches the owned record, merges the supplied fields onto it,
// validates the result and persists it.
func (r *Repo) Update(ctx context.Context, id int64, ownerID string, p Patch) (Transaction, error) {
	current, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return Transaction{}, err
	}

	merged := p.Apply(current)
	if err := merged.Validate(); err != nil {
		return Transaction{}, err
	}

	row := r.Pool.QueryRow(ctx, `
		UPDATE transactions
		SET person_type = $3, date_time = $4, comment = $5, amount = $6::numeric,
			status = $7, sender_bank = $8, sender_account = $9, recipient_bank = $10,
			recipient_inn = $11, recipient_account = $12, category = $13, recipient_phone = $14
		WHERE id = $1 AND user_id = $2::uuid
		RETURNING `+txColumns,
		id, ownerID, string(merged.PersonType), merged.DateTime, merged.Comment, merged.Amount.String(),
		string(merged.Status), merged.SenderBank, merged.SenderAccount, merged.RecipientBank,
		merged.RecipientINN, merged.RecipientAccount, merged.Category, merged.RecipientPhone,
	)
	return scanTx(row)
}

// Delete removes the owned record. Deleting a missing or unowned id is a
// no-op, so repeated deletes stay idempotent.
func (r *Repo) Delete(ctx context.Context, id int64, ownerID string) error {
	_, err := r.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2::uuid`,
		id, ownerID,
	)
	return err
}
