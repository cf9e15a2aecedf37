package restaurant

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (*Restaurant, error)
	List(ctx context.Context) ([]Restaurant, error)
}
