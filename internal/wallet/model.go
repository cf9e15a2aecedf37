package wallet

import "time"

// Transaction types. Topup types carry the exactly-once guarantee via the
// idempotency key; payment and refund are driven by the order state machine.
const (
	TypeTopupProcessor = "topup_stripe"
	TypeTopupAdmin     = "topup_admin"
	TypePayment        = "payment"
	TypeRefund         = "refund"
)

// Topup intent statuses.
const (
	TopupPending   = "pending"
	TopupCompleted = "completed"
	TopupFailed    = "failed"
)

// Wallet is a prepaid balance scoped to one customer at one restaurant.
// Created lazily on first credit or first balance-funded payment.
type Wallet struct {
	ID           int       `db:"id" json:"id"`
	CustomerID   int       `db:"customer_id" json:"customer_id"`
	RestaurantID int       `db:"restaurant_id" json:"restaurant_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one append-only ledger row. The wallet balance always
// equals the running sum of AmountCents; BalanceAfter snapshots the balance
// right after this row for audit without recomputation.
type Transaction struct {
	ID             int       `db:"id" json:"id"`
	WalletID       int       `db:"wallet_id" json:"wallet_id"`
	Type           string    `db:"type" json:"type"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	BalanceAfter   int64     `db:"balance_after" json:"balance_after"`
	Description    string    `db:"description" json:"description"`
	OrderID        *int      `db:"order_id" json:"order_id,omitempty"`
	ActorID        *int      `db:"actor_id" json:"actor_id,omitempty"`
	IdempotencyKey *string   `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TopupIntent tracks a processor-funded top-up while the customer completes
// payment out-of-band. Reference is the processor session reference and later
// the credit's idempotency key.
type TopupIntent struct {
	ID           int       `db:"id" json:"id"`
	CustomerID   int       `db:"customer_id" json:"customer_id"`
	RestaurantID int       `db:"restaurant_id" json:"restaurant_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Reference    string    `db:"reference" json:"reference"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type TopUpResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

type AdminCreditRequest struct {
	CustomerID   int    `json:"customer_id" binding:"required"`
	RestaurantID int    `json:"restaurant_id" binding:"required"`
	AmountCents  int64  `json:"amount_cents" binding:"required,gt=0"`
	Description  string `json:"description" binding:"omitempty,max=255"`
}
