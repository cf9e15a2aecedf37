package catalog

import "context"

// Repository is the read-only price and availability source the pricing
// engine resolves carts against. Nothing in the order kernel writes to it.
type Repository interface {
	GetProduct(ctx context.Context, id int) (*Product, error)
	GetModifier(ctx context.Context, id int) (*Modifier, error)
	GetModifierGroup(ctx context.Context, id int) (*ModifierGroup, error)
	ListMenu(ctx context.Context, restaurantID int) ([]ProductWithModifiers, error)
}
