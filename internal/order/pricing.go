package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodshop/internal/catalog"
	"foodshop/internal/restaurant"
	"foodshop/internal/schedule"
)

var (
	ErrEmptyCart                = errors.New("cart has no lines")
	ErrCatalogMismatch          = errors.New("cart references unknown or foreign catalog items")
	ErrItemUnavailable          = errors.New("product is not available")
	ErrRestaurantClosed         = errors.New("restaurant is not accepting orders")
	ErrPaymentMethodUnsupported = errors.New("payment method not supported by restaurant")
	ErrInvalidPickupTime        = errors.New("pickup time is outside opening hours")
	ErrInvalidQuantity          = errors.New("line quantity out of range")
)

// MaxLineQuantity bounds a single cart line so line totals stay far away
// from integer overflow.
const MaxLineQuantity = 100

// Engine turns an untrusted cart into a priced Draft. Every price and name is
// resolved from the catalog; nothing the client sent beyond ids and
// quantities survives into the draft.
type Engine struct {
	catalog catalog.Repository
	now     func() time.Time
}

func NewEngine(cat catalog.Repository) *Engine {
	return &Engine{catalog: cat, now: time.Now}
}

func (e *Engine) PriceCart(ctx context.Context, rest *restaurant.Restaurant, customerID int, req CheckoutRequest) (*Draft, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	method, source, err := resolvePayment(rest, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	week, err := rest.Schedule()
	if err != nil {
		return nil, fmt.Errorf("restaurant %d schedule: %w", rest.ID, err)
	}
	now := e.now()
	if !rest.AcceptingOrders || !schedule.IsOpen(week, now) {
		return nil, ErrRestaurantClosed
	}
	if req.PickupTime != nil {
		earliest := now.Add(time.Duration(restaurant.DefaultPickupLeadMinutes) * time.Minute)
		if req.PickupTime.Before(earliest) || !schedule.IsOpen(week, *req.PickupTime) {
			return nil, ErrInvalidPickupTime
		}
	}

	draft := &Draft{
		RestaurantID:  rest.ID,
		CustomerID:    customerID,
		PaymentMethod: method,
		PaymentSource: source,
		PickupTime:    req.PickupTime,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
	}

	for _, line := range req.Lines {
		item, err := e.priceLine(ctx, rest.ID, line)
		if err != nil {
			return nil, err
		}
		draft.Items = append(draft.Items, *item)
		draft.TotalCents += item.LineTotalCents
	}
	return draft, nil
}

func (e *Engine) priceLine(ctx context.Context, restaurantID int, line CartLine) (*DraftItem, error) {
	if line.Quantity < 1 || line.Quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	product, err := e.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrCatalogMismatch
		}
		return nil, err
	}
	if product.RestaurantID != restaurantID {
		return nil, ErrCatalogMismatch
	}
	if !product.IsAvailable {
		return nil, ErrItemUnavailable
	}

	item := &DraftItem{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       line.Quantity,
	}

	unit := product.PriceCents
	for _, modID := range line.ModifierIDs {
		mod, err := e.catalog.GetModifier(ctx, modID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, ErrCatalogMismatch
			}
			return nil, err
		}
		group, err := e.catalog.GetModifierGroup(ctx, mod.GroupID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, ErrCatalogMismatch
			}
			return nil, err
		}
		if group.ProductID != product.ID {
			return nil, ErrCatalogMismatch
		}
		item.Modifiers = append(item.Modifiers, ModifierSnapshot{
			GroupName:       group.Name,
			Name:            mod.Name,
			PriceExtraCents: mod.PriceExtraCents,
		})
		unit += mod.PriceExtraCents
	}

	item.LineTotalCents = unit * int64(line.Quantity)
	return item, nil
}

// resolvePayment maps the request method onto the stored method/source pair.
// Wallet-funded orders are recorded as online payments sourced from the
// wallet so settlement reports group them with card payments.
func resolvePayment(rest *restaurant.Restaurant, requested string) (method, source string, err error) {
	switch requested {
	case restaurant.PaymentOnSite:
		if !rest.AcceptsPayment(restaurant.PaymentOnSite) {
			return "", "", ErrPaymentMethodUnsupported
		}
		return MethodOnSite, SourceDirect, nil
	case restaurant.PaymentOnline:
		if !rest.AcceptsPayment(restaurant.PaymentOnline) || !rest.ProcessorAccountReady {
			return "", "", ErrPaymentMethodUnsupported
		}
		return MethodOnline, SourceDirect, nil
	case restaurant.PaymentWallet:
		if !rest.AcceptsPayment(restaurant.PaymentWallet) {
			return "", "", ErrPaymentMethodUnsupported
		}
		return MethodOnline, SourceWallet, nil
	default:
		return "", "", ErrPaymentMethodUnsupported
	}
}
