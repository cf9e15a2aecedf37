package restaurant

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupRestaurantMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func restaurantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "address", "accepting_orders", "processor_account_ready", "accepted_payments", "weekly_schedule", "created_at"})
}

func TestGetByID(t *testing.T) {
	repo, mock, close := setupRestaurantMock(t)
	defer close()

	sched := []byte(`{"monday":[{"open":"11:00","close":"14:00"}]}`)
	mock.ExpectQuery("SELECT id, name, address, accepting_orders, processor_account_ready, accepted_payments, weekly_schedule, created_at").
		WithArgs(1).
		WillReturnRows(restaurantRows().AddRow(1, "Trattoria", "Main St 1", true, true, pq.StringArray{"on_site", "online", "wallet"}, sched, time.Now()))

	rest, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, rest.AcceptingOrders)
	require.True(t, rest.AcceptsPayment("online"))
	require.False(t, rest.AcceptsPayment("bitcoin"))

	week, err := rest.Schedule()
	require.NoError(t, err)
	require.Len(t, week[time.Monday], 1)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupRestaurantMock(t)
	defer close()

	mock.ExpectQuery("SELECT id, name, address, accepting_orders").
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	repo, mock, close := setupRestaurantMock(t)
	defer close()

	mock.ExpectQuery("SELECT id, name, address, accepting_orders").
		WillReturnRows(restaurantRows().
			AddRow(1, "Trattoria", "Main St 1", true, true, pq.StringArray{"on_site"}, []byte(`{}`), time.Now()).
			AddRow(2, "Sushi Bar", "Main St 2", false, false, pq.StringArray{"on_site"}, nil, time.Now()))

	restaurants, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	require.Equal(t, "Sushi Bar", restaurants[1].Name)
}
