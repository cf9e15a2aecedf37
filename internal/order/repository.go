package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"foodshop/internal/wallet"
)

var ErrNotFound = errors.New("order not found")

const orderColumns = `id, public_id, number, restaurant_id, customer_id, status, total_cents,
	 payment_method, payment_source, paid, payment_ref, pickup_time,
	 contact_name, contact_phone, cash_collected_at, created_at, updated_at`

type repository struct {
	db      *sqlx.DB
	wallets wallet.Repository
}

func NewRepository(db *sqlx.DB, wallets wallet.Repository) Repository {
	return &repository{db: db, wallets: wallets}
}

func (r *repository) Create(ctx context.Context, draft *Draft) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := r.insertTx(ctx, tx, draft, true, nil)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) CreateWalletPaid(ctx context.Context, draft *Draft) (*Order, int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	// Wallet first, order second. Every wallet+order operation locks in this
	// order so two of them can never deadlock each other.
	balance, err := r.wallets.DebitTx(ctx, tx, draft.CustomerID, draft.RestaurantID, draft.TotalCents, "order payment", nil)
	if err != nil {
		return nil, 0, err
	}

	o, err := r.insertTx(ctx, tx, draft, true, nil)
	if err != nil {
		return nil, 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallet_transactions
		 SET order_id = $1
		 WHERE id = (SELECT id FROM wallet_transactions
		             WHERE wallet_id = (SELECT id FROM wallets WHERE customer_id = $2 AND restaurant_id = $3)
		             ORDER BY id DESC LIMIT 1)`,
		o.ID, draft.CustomerID, draft.RestaurantID,
	)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return o, balance, nil
}

func (r *repository) CreateOnline(ctx context.Context, draft *Draft, createSession CreateSessionFunc) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := r.insertTx(ctx, tx, draft, false, nil)
	if err != nil {
		return nil, err
	}

	ref, err := createSession(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET payment_ref = $1, updated_at = NOW() WHERE id = $2`,
		ref, o.ID,
	)
	if err != nil {
		return nil, err
	}
	o.PaymentRef = &ref

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

// insertTx assigns the restaurant-scoped order number under a restaurant row
// lock and writes the order and its item snapshots.
func (r *repository) insertTx(ctx context.Context, tx *sqlx.Tx, draft *Draft, paid bool, paymentRef *string) (*Order, error) {
	var restaurantID int
	err := tx.GetContext(ctx, &restaurantID,
		`SELECT id FROM restaurants WHERE id = $1 FOR UPDATE`,
		draft.RestaurantID,
	)
	if err != nil {
		return nil, err
	}

	var number int
	err = tx.GetContext(ctx, &number,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM orders WHERE restaurant_id = $1`,
		draft.RestaurantID,
	)
	if err != nil {
		return nil, err
	}

	o := &Order{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO orders (public_id, number, restaurant_id, customer_id, status, total_cents,
		                     payment_method, payment_source, paid, payment_ref, pickup_time,
		                     contact_name, contact_phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+orderColumns,
		uuid.NewString(), number, draft.RestaurantID, draft.CustomerID, StatusNew, draft.TotalCents,
		draft.PaymentMethod, draft.PaymentSource, paid, paymentRef, draft.PickupTime,
		draft.ContactName, draft.ContactPhone,
	).StructScan(o)
	if err != nil {
		return nil, err
	}

	for _, item := range draft.Items {
		var saved Item
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, unit_price_cents, quantity, modifiers, line_total_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, order_id, product_id, name, unit_price_cents, quantity, modifiers, line_total_cents`,
			o.ID, item.ProductID, item.Name, item.UnitPriceCents, item.Quantity,
			ModifierSnapshots(item.Modifiers), item.LineTotalCents,
		).StructScan(&saved)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, saved)
	}

	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Order, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *repository) GetByPublicID(ctx context.Context, publicID string) (*Order, error) {
	return r.getBy(ctx, `public_id = $1`, publicID)
}

func (r *repository) GetBySessionRef(ctx context.Context, ref string) (*Order, error) {
	return r.getBy(ctx, `payment_ref = $1`, ref)
}

func (r *repository) getBy(ctx context.Context, where string, arg interface{}) (*Order, error) {
	o := &Order{}
	err := r.db.GetContext(ctx, o,
		`SELECT `+orderColumns+` FROM orders WHERE `+where, arg,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) attachItems(ctx context.Context, o *Order) error {
	return r.db.SelectContext(ctx, &o.Items,
		`SELECT id, order_id, product_id, name, unit_price_cents, quantity, modifiers, line_total_cents
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		o.ID,
	)
}

func (r *repository) ListByCustomer(ctx context.Context, customerID, limit, offset int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders
		 WHERE customer_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		customerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, restaurantID int, status string, limit, offset int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`, limit, offset)

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) MarkPaidBySession(ctx context.Context, ref string) (*Order, bool, error) {
	o := &Order{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE orders
		 SET paid = true, updated_at = NOW()
		 WHERE payment_ref = $1 AND paid = false AND status <> $2
		 RETURNING `+orderColumns,
		ref, StatusCancelled,
	).StructScan(o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *repository) CancelBySessionIfUnpaidNew(ctx context.Context, ref string) (*Order, bool, error) {
	o := &Order{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW()
		 WHERE payment_ref = $2 AND status = $3 AND paid = false
		 RETURNING `+orderColumns,
		StatusCancelled, ref, StatusNew,
	).StructScan(o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Cancel(ctx context.Context, id int) (*Order, *int64, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, false, err
	}
	defer tx.Rollback()

	o := &Order{}
	err = tx.QueryRowxContext(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status NOT IN ($3, $4)
		 RETURNING `+orderColumns,
		StatusCancelled, id, StatusDone, StatusCancelled,
	).StructScan(o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	// The refund rides the cancel transaction: either both land or neither
	// does, so a credit failure never strands the customer's money.
	var refundBalance *int64
	if o.Paid && o.PaymentSource == SourceWallet {
		key := fmt.Sprintf("refund-order-%d", o.ID)
		balance, err := r.wallets.CreditTx(ctx, tx, o.CustomerID, o.RestaurantID, o.TotalCents,
			wallet.TypeRefund, fmt.Sprintf("refund for order #%d", o.Number),
			wallet.CreditOptions{IdempotencyKey: &key, OrderID: &o.ID})
		if err != nil {
			return nil, nil, false, err
		}
		refundBalance = &balance
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, false, err
	}
	return o, refundBalance, true, nil
}

func (r *repository) MarkCashCollected(ctx context.Context, id int, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET cash_collected_at = $1, updated_at = NOW()
		 WHERE id = $2 AND payment_method = $3 AND cash_collected_at IS NULL`,
		at, id, MethodOnSite,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
