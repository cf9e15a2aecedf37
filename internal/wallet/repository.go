package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrIntentNotFound      = errors.New("topup intent not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, customerID, restaurantID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT id, customer_id, restaurant_id, balance_cents, created_at, updated_at
		 FROM wallets
		 WHERE customer_id = $1 AND restaurant_id = $2`,
		customerID, restaurantID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (customer_id, restaurant_id)
		 VALUES ($1, $2)
		 ON CONFLICT (customer_id, restaurant_id) DO UPDATE SET updated_at = wallets.updated_at
		 RETURNING id, customer_id, restaurant_id, balance_cents, created_at, updated_at`,
		customerID, restaurantID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) Credit(ctx context.Context, customerID, restaurantID int, amountCents int64, txType, description string, opts CreditOptions) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	newBalance, err := r.CreditTx(ctx, tx, customerID, restaurantID, amountCents, txType, description, opts)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

func (r *repository) CreditTx(ctx context.Context, tx *sqlx.Tx, customerID, restaurantID int, amountCents int64, txType, description string, opts CreditOptions) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}

	// Replay check: a credit with a known idempotency key already happened.
	if opts.IdempotencyKey != nil {
		var balanceAfter int64
		err := tx.GetContext(ctx, &balanceAfter,
			`SELECT balance_after FROM wallet_transactions WHERE idempotency_key = $1`,
			*opts.IdempotencyKey,
		)
		if err == nil {
			return balanceAfter, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
	}

	return r.applyTx(ctx, tx, customerID, restaurantID, amountCents, txType, description, opts)
}

func (r *repository) Debit(ctx context.Context, customerID, restaurantID int, amountCents int64, description string, orderID *int) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	newBalance, err := r.DebitTx(ctx, tx, customerID, restaurantID, amountCents, description, orderID)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

func (r *repository) DebitTx(ctx context.Context, tx *sqlx.Tx, customerID, restaurantID int, amountCents int64, description string, orderID *int) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}
	return r.applyTx(ctx, tx, customerID, restaurantID, -amountCents, TypePayment, description, CreditOptions{OrderID: orderID})
}

// applyTx is the single read-modify-write path for the ledger: lock the
// wallet row, compute the new balance, write it, append the log row.
func (r *repository) applyTx(ctx context.Context, tx *sqlx.Tx, customerID, restaurantID int, amountCents int64, txType, description string, opts CreditOptions) (int64, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, customer_id, restaurant_id, balance_cents, created_at, updated_at
		 FROM wallets
		 WHERE customer_id = $1 AND restaurant_id = $2
		 FOR UPDATE`,
		customerID, restaurantID,
	).StructScan(&w)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (customer_id, restaurant_id)
			 VALUES ($1, $2)
			 RETURNING id, customer_id, restaurant_id, balance_cents, created_at, updated_at`,
			customerID, restaurantID,
		).StructScan(&w)
		if err != nil {
			return 0, err
		}
	}

	newBalance := w.BalanceCents + amountCents
	if newBalance < 0 {
		return 0, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, type, amount_cents, balance_after, description, order_id, actor_id, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, txType, amountCents, newBalance, description, opts.OrderID, opts.ActorID, opts.IdempotencyKey,
	)
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (r *repository) GetTransactions(ctx context.Context, customerID, restaurantID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID,
		`SELECT id FROM wallets WHERE customer_id = $1 AND restaurant_id = $2`,
		customerID, restaurantID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, type, amount_cents, balance_after, description, order_id, actor_id, idempotency_key, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *repository) CreateTopupIntent(ctx context.Context, customerID, restaurantID int, amountCents int64, reference string) (*TopupIntent, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var intent TopupIntent
	err := r.db.GetContext(ctx, &intent, `
		INSERT INTO wallet_topups (customer_id, restaurant_id, amount_cents, reference, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, customer_id, restaurant_id, amount_cents, reference, status, created_at, updated_at
	`, customerID, restaurantID, amountCents, reference)
	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *repository) GetTopupIntentByReference(ctx context.Context, reference string) (*TopupIntent, error) {
	var intent TopupIntent
	err := r.db.GetContext(ctx, &intent, `
		SELECT id, customer_id, restaurant_id, amount_cents, reference, status, created_at, updated_at
		FROM wallet_topups
		WHERE reference = $1
	`, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *repository) SetTopupIntentStatus(ctx context.Context, id int, from, to string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wallet_topups
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
