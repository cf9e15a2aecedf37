package restaurant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("restaurant not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int) (*Restaurant, error) {
	query := `
		SELECT id, name, address, accepting_orders, processor_account_ready, accepted_payments, weekly_schedule, created_at
		FROM restaurants
		WHERE id = $1
	`

	var rest Restaurant
	err := r.db.GetContext(ctx, &rest, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rest, nil
}

func (r *repository) List(ctx context.Context) ([]Restaurant, error) {
	query := `
		SELECT id, name, address, accepting_orders, processor_account_ready, accepted_payments, weekly_schedule, created_at
		FROM restaurants
		ORDER BY name
	`

	var restaurants []Restaurant
	err := r.db.SelectContext(ctx, &restaurants, query)
	if err != nil {
		return nil, err
	}

	return restaurants, nil
}
