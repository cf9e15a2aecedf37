package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupCatalogMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestGetProduct(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	rows := sqlmock.NewRows([]string{"id", "restaurant_id", "category_id", "name", "description", "price_cents", "is_available", "created_at"}).
		AddRow(1, 2, nil, "Margherita", "tomato, mozzarella", 750, true, time.Now())

	mock.ExpectQuery("SELECT id, restaurant_id, category_id, name, description, price_cents, is_available, created_at").
		WithArgs(1).
		WillReturnRows(rows)

	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(750), p.PriceCents)
	require.True(t, p.IsAvailable)
	require.Equal(t, 2, p.RestaurantID)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	mock.ExpectQuery("SELECT id, restaurant_id, category_id, name, description, price_cents, is_available, created_at").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProduct(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetModifier(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	rows := sqlmock.NewRows([]string{"id", "group_id", "name", "price_extra_cents"}).
		AddRow(5, 3, "Extra cheese", 100)

	mock.ExpectQuery("SELECT id, group_id, name, price_extra_cents").
		WithArgs(5).
		WillReturnRows(rows)

	m, err := repo.GetModifier(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(100), m.PriceExtraCents)
	require.Equal(t, 3, m.GroupID)
}

func TestGetModifierGroup_NotFound(t *testing.T) {
	repo, mock, close := setupCatalogMock(t)
	defer close()

	mock.ExpectQuery("SELECT id, product_id, name").
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetModifierGroup(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}
