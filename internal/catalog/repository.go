package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("catalog entry not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProduct(ctx context.Context, id int) (*Product, error) {
	query := `
		SELECT id, restaurant_id, category_id, name, description, price_cents, is_available, created_at
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetModifier(ctx context.Context, id int) (*Modifier, error) {
	query := `
		SELECT id, group_id, name, price_extra_cents
		FROM modifiers
		WHERE id = $1
	`

	var m Modifier
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetModifierGroup(ctx context.Context, id int) (*ModifierGroup, error) {
	query := `
		SELECT id, product_id, name
		FROM modifier_groups
		WHERE id = $1
	`

	var g ModifierGroup
	err := r.db.GetContext(ctx, &g, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repository) ListMenu(ctx context.Context, restaurantID int) ([]ProductWithModifiers, error) {
	var products []Product
	err := r.db.SelectContext(ctx, &products, `
		SELECT id, restaurant_id, category_id, name, description, price_cents, is_available, created_at
		FROM products
		WHERE restaurant_id = $1
		ORDER BY category_id NULLS FIRST, name
	`, restaurantID)
	if err != nil {
		return nil, err
	}

	menu := make([]ProductWithModifiers, 0, len(products))
	for _, p := range products {
		var groups []ModifierGroup
		err := r.db.SelectContext(ctx, &groups, `
			SELECT id, product_id, name
			FROM modifier_groups
			WHERE product_id = $1
			ORDER BY id
		`, p.ID)
		if err != nil {
			return nil, err
		}

		item := ProductWithModifiers{Product: p, ModifierGroups: []GroupWithModifiers{}}
		for _, g := range groups {
			var modifiers []Modifier
			err := r.db.SelectContext(ctx, &modifiers, `
				SELECT id, group_id, name, price_extra_cents
				FROM modifiers
				WHERE group_id = $1
				ORDER BY id
			`, g.ID)
			if err != nil {
				return nil, err
			}
			item.ModifierGroups = append(item.ModifierGroups, GroupWithModifiers{ModifierGroup: g, Modifiers: modifiers})
		}

		menu = append(menu, item)
	}

	return menu, nil
}
