package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Order statuses. Forward transitions are single-step
// (new -> preparing -> ready -> done); cancelled is reachable from any
// non-terminal status and is terminal.
const (
	StatusNew       = "new"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

const (
	MethodOnline = "online"
	MethodOnSite = "on_site"
)

const (
	SourceDirect = "direct"
	SourceWallet = "wallet"
)

// nextStatus is the only legal forward step per status.
var nextStatus = map[string]string{
	StatusNew:       StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDone,
}

func isTerminal(status string) bool {
	return status == StatusDone || status == StatusCancelled
}

type Order struct {
	ID           int    `db:"id" json:"id"`
	PublicID     string `db:"public_id" json:"public_id"`
	Number       int    `db:"number" json:"number"`
	RestaurantID int    `db:"restaurant_id" json:"restaurant_id"`
	CustomerID   int    `db:"customer_id" json:"customer_id"`
	Status       string `db:"status" json:"status"`
	// TotalCents is fixed at creation from server-resolved prices and never
	// mutated afterwards.
	TotalCents      int64      `db:"total_cents" json:"total_cents"`
	PaymentMethod   string     `db:"payment_method" json:"payment_method"`
	PaymentSource   string     `db:"payment_source" json:"payment_source"`
	Paid            bool       `db:"paid" json:"paid"`
	PaymentRef      *string    `db:"payment_ref" json:"payment_ref,omitempty"`
	PickupTime      *time.Time `db:"pickup_time" json:"pickup_time,omitempty"`
	ContactName     string     `db:"contact_name" json:"contact_name"`
	ContactPhone    string     `db:"contact_phone" json:"contact_phone"`
	CashCollectedAt *time.Time `db:"cash_collected_at" json:"cash_collected_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	Items []Item `db:"-" json:"items,omitempty"`
}

// Item is an order line with the product name and prices snapshotted at
// creation. Catalog edits never reach back into a placed order.
type Item struct {
	ID             int               `db:"id" json:"id"`
	OrderID        int               `db:"order_id" json:"order_id"`
	ProductID      int               `db:"product_id" json:"product_id"`
	Name           string            `db:"name" json:"name"`
	UnitPriceCents int64             `db:"unit_price_cents" json:"unit_price_cents"`
	Quantity       int               `db:"quantity" json:"quantity"`
	Modifiers      ModifierSnapshots `db:"modifiers" json:"modifiers"`
	LineTotalCents int64             `db:"line_total_cents" json:"line_total_cents"`
}

type ModifierSnapshot struct {
	GroupName       string `json:"group_name"`
	Name            string `json:"name"`
	PriceExtraCents int64  `json:"price_extra_cents"`
}

// ModifierSnapshots is stored as JSONB.
type ModifierSnapshots []ModifierSnapshot

func (m ModifierSnapshots) Value() (driver.Value, error) {
	if m == nil {
		m = ModifierSnapshots{}
	}
	return json.Marshal(m)
}

func (m *ModifierSnapshots) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = ModifierSnapshots{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for modifier snapshots")
	}
}

// Draft is a priced, validated, not-yet-persisted order produced by the
// pricing engine.
type Draft struct {
	RestaurantID  int
	CustomerID    int
	Items         []DraftItem
	TotalCents    int64
	PaymentMethod string
	PaymentSource string
	PickupTime    *time.Time
	ContactName   string
	ContactPhone  string
}

type DraftItem struct {
	ProductID      int
	Name           string
	UnitPriceCents int64
	Quantity       int
	Modifiers      []ModifierSnapshot
	LineTotalCents int64
}

// CartLine is an untrusted client cart line: ids and quantities only, any
// price fields a client might send simply have nowhere to land.
type CartLine struct {
	ProductID   int   `json:"product_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"required,min=1,max=100"`
	ModifierIDs []int `json:"modifier_ids"`
}

type CheckoutRequest struct {
	Lines         []CartLine `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=on_site online wallet"`
	PickupTime    *time.Time `json:"pickup_time"`
	ContactName   string     `json:"contact_name" binding:"required,max=100"`
	ContactPhone  string     `json:"contact_phone" binding:"required,max=32"`
}

// CheckoutResponse carries either the created order (on-site, wallet) or the
// processor redirect target (online).
type CheckoutResponse struct {
	Order       *Order `json:"order,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=preparing ready done"`
}
