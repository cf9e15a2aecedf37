package catalog

import "time"

type Product struct {
	ID           int       `db:"id" json:"id"`
	RestaurantID int       `db:"restaurant_id" json:"restaurant_id"`
	CategoryID   *int      `db:"category_id" json:"category_id,omitempty"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ModifierGroup struct {
	ID        int    `db:"id" json:"id"`
	ProductID int    `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
}

type Modifier struct {
	ID              int    `db:"id" json:"id"`
	GroupID         int    `db:"group_id" json:"group_id"`
	Name            string `db:"name" json:"name"`
	PriceExtraCents int64  `db:"price_extra_cents" json:"price_extra_cents"`
}

// ProductWithModifiers is the menu read model.
type ProductWithModifiers struct {
	Product
	ModifierGroups []GroupWithModifiers `json:"modifier_groups"`
}

type GroupWithModifiers struct {
	ModifierGroup
	Modifiers []Modifier `json:"modifiers"`
}
