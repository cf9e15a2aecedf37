package order

import (
	"context"
	"time"
)

// CreateSessionFunc is called by CreateOnline inside the creation
// transaction, after the order row exists but before commit. Returning an
// error rolls the whole creation back, so a processor outage never leaves a
// dangling unpaid order.
type CreateSessionFunc func(ctx context.Context, o *Order) (sessionRef string, err error)

type Repository interface {
	// Create persists a draft as an on-site order, paid at creation.
	Create(ctx context.Context, draft *Draft) (*Order, error)
	// CreateWalletPaid debits the customer's wallet and creates the order
	// paid, both in one transaction. Returns the post-debit balance.
	CreateWalletPaid(ctx context.Context, draft *Draft) (*Order, int64, error)
	// CreateOnline persists an unpaid order together with the processor
	// session reference produced by createSession.
	CreateOnline(ctx context.Context, draft *Draft, createSession CreateSessionFunc) (*Order, error)

	GetByID(ctx context.Context, id int) (*Order, error)
	GetByPublicID(ctx context.Context, publicID string) (*Order, error)
	GetBySessionRef(ctx context.Context, ref string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID, limit, offset int) ([]Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int, status string, limit, offset int) ([]Order, error)

	// MarkPaidBySession flips paid on the order holding the session
	// reference. Reports false without error when the order was already
	// paid, which makes replayed confirmations no-ops.
	MarkPaidBySession(ctx context.Context, ref string) (*Order, bool, error)
	// CancelBySessionIfUnpaidNew cancels the order holding the session
	// reference, but only while it is still new and unpaid.
	CancelBySessionIfUnpaidNew(ctx context.Context, ref string) (*Order, bool, error)

	// UpdateStatus applies a single transition guarded by the expected
	// current status. Reports false when the guard missed.
	UpdateStatus(ctx context.Context, id int, from, to string) (bool, error)
	// Cancel moves any non-terminal order to cancelled. A wallet-paid order
	// gets its total credited back in the same transaction; the post-refund
	// balance is returned, nil when no refund was due.
	Cancel(ctx context.Context, id int) (*Order, *int64, bool, error)
	MarkCashCollected(ctx context.Context, id int, at time.Time) (bool, error)
}
