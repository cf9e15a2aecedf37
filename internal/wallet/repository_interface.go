package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// CreditOptions carries the optional attributes of a ledger credit.
// IdempotencyKey makes the credit replay-safe: a second call with the same
// key is a no-op returning the original post-transaction balance.
type CreditOptions struct {
	IdempotencyKey *string
	OrderID        *int
	ActorID        *int
}

type Repository interface {
	GetOrCreate(ctx context.Context, customerID, restaurantID int) (*Wallet, error)
	Credit(ctx context.Context, customerID, restaurantID int, amountCents int64, txType, description string, opts CreditOptions) (int64, error)
	// CreditTx runs the credit on a caller-owned transaction so a refund can
	// commit or roll back together with the order update that caused it.
	CreditTx(ctx context.Context, tx *sqlx.Tx, customerID, restaurantID int, amountCents int64, txType, description string, opts CreditOptions) (int64, error)
	Debit(ctx context.Context, customerID, restaurantID int, amountCents int64, description string, orderID *int) (int64, error)
	// DebitTx runs the debit on a caller-owned transaction so order creation
	// and payment form one atomic unit.
	DebitTx(ctx context.Context, tx *sqlx.Tx, customerID, restaurantID int, amountCents int64, description string, orderID *int) (int64, error)
	GetTransactions(ctx context.Context, customerID, restaurantID, limit, offset int) ([]Transaction, error)

	CreateTopupIntent(ctx context.Context, customerID, restaurantID int, amountCents int64, reference string) (*TopupIntent, error)
	GetTopupIntentByReference(ctx context.Context, reference string) (*TopupIntent, error)
	// SetTopupIntentStatus moves an intent from one status to another,
	// reporting whether the row was actually in the expected status.
	SetTopupIntentStatus(ctx context.Context, id int, from, to string) (bool, error)
}
