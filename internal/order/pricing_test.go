package order

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshop/internal/catalog"
	"foodshop/internal/restaurant"
)

type fakeCatalog struct {
	products  map[int]*catalog.Product
	modifiers map[int]*catalog.Modifier
	groups    map[int]*catalog.ModifierGroup
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*catalog.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) GetModifier(_ context.Context, id int) (*catalog.Modifier, error) {
	if m, ok := f.modifiers[id]; ok {
		return m, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) GetModifierGroup(_ context.Context, id int) (*catalog.ModifierGroup, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) ListMenu(context.Context, int) ([]catalog.ProductWithModifiers, error) {
	return nil, nil
}

// Monday 2026-03-02, 12:00.
var openMonday = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func testRestaurant() *restaurant.Restaurant {
	return &restaurant.Restaurant{
		ID:                    1,
		Name:                  "Trattoria Uno",
		AcceptingOrders:       true,
		ProcessorAccountReady: true,
		AcceptedPayments:      pq.StringArray{"on_site", "online", "wallet"},
		WeeklySchedule:        []byte(`{"monday":[{"open":"11:00","close":"14:00"},{"open":"18:00","close":"22:00"}]}`),
	}
}

func testEngine(at time.Time) (*Engine, *fakeCatalog) {
	fc := &fakeCatalog{
		products: map[int]*catalog.Product{
			10: {ID: 10, RestaurantID: 1, Name: "Margherita", PriceCents: 900, IsAvailable: true},
			11: {ID: 11, RestaurantID: 1, Name: "Calzone", PriceCents: 1100, IsAvailable: true},
			12: {ID: 12, RestaurantID: 1, Name: "Tiramisu", PriceCents: 450, IsAvailable: false},
			20: {ID: 20, RestaurantID: 2, Name: "Pad Thai", PriceCents: 1200, IsAvailable: true},
		},
		modifiers: map[int]*catalog.Modifier{
			100: {ID: 100, GroupID: 1000, Name: "Extra cheese", PriceExtraCents: 150},
			101: {ID: 101, GroupID: 1000, Name: "Mushrooms", PriceExtraCents: 100},
			102: {ID: 102, GroupID: 1001, Name: "Large", PriceExtraCents: 300},
		},
		groups: map[int]*catalog.ModifierGroup{
			1000: {ID: 1000, ProductID: 10, Name: "Toppings"},
			1001: {ID: 1001, ProductID: 11, Name: "Size"},
		},
	}
	return &Engine{catalog: fc, now: func() time.Time { return at }}, fc
}

func checkoutReq(lines []CartLine, method string) CheckoutRequest {
	return CheckoutRequest{
		Lines:         lines,
		PaymentMethod: method,
		ContactName:   "Dana",
		ContactPhone:  "+15550100",
	}
}

func TestPriceCartResolvesFromCatalog(t *testing.T) {
	engine, _ := testEngine(openMonday)

	req := checkoutReq([]CartLine{
		{ProductID: 10, Quantity: 2, ModifierIDs: []int{100, 101}},
		{ProductID: 11, Quantity: 1, ModifierIDs: []int{102}},
	}, "on_site")

	draft, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.NoError(t, err)

	require.Len(t, draft.Items, 2)
	// (900 + 150 + 100) * 2
	assert.Equal(t, int64(2300), draft.Items[0].LineTotalCents)
	assert.Equal(t, "Margherita", draft.Items[0].Name)
	assert.Equal(t, int64(900), draft.Items[0].UnitPriceCents)
	require.Len(t, draft.Items[0].Modifiers, 2)
	assert.Equal(t, "Toppings", draft.Items[0].Modifiers[0].GroupName)
	assert.Equal(t, "Extra cheese", draft.Items[0].Modifiers[0].Name)
	// (1100 + 300) * 1
	assert.Equal(t, int64(1400), draft.Items[1].LineTotalCents)
	assert.Equal(t, int64(3700), draft.TotalCents)

	assert.Equal(t, MethodOnSite, draft.PaymentMethod)
	assert.Equal(t, SourceDirect, draft.PaymentSource)
	assert.Equal(t, 7, draft.CustomerID)
}

func TestPriceCartEmptyCart(t *testing.T) {
	engine, _ := testEngine(openMonday)
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, checkoutReq(nil, "on_site"))
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceCartQuantityOutOfRange(t *testing.T) {
	engine, _ := testEngine(openMonday)

	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 0}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	// A huge quantity would let unit * quantity overflow, so it is rejected
	// before any arithmetic happens.
	req = checkoutReq([]CartLine{{ProductID: 10, Quantity: MaxLineQuantity + 1}}, "on_site")
	_, err = engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPriceCartUnknownProduct(t *testing.T) {
	engine, _ := testEngine(openMonday)
	req := checkoutReq([]CartLine{{ProductID: 999, Quantity: 1}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrCatalogMismatch)
}

func TestPriceCartForeignRestaurantProduct(t *testing.T) {
	engine, _ := testEngine(openMonday)
	req := checkoutReq([]CartLine{{ProductID: 20, Quantity: 1}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrCatalogMismatch)
}

func TestPriceCartModifierOfOtherProduct(t *testing.T) {
	engine, _ := testEngine(openMonday)
	// Size modifier belongs to the calzone, not the margherita.
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1, ModifierIDs: []int{102}}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrCatalogMismatch)
}

func TestPriceCartUnavailableProduct(t *testing.T) {
	engine, _ := testEngine(openMonday)
	req := checkoutReq([]CartLine{{ProductID: 12, Quantity: 1}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestPriceCartClosedRestaurant(t *testing.T) {
	// 14:00 is the close boundary and already outside the half-open range.
	engine, _ := testEngine(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "on_site")
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrRestaurantClosed)
}

func TestPriceCartNotAcceptingOrders(t *testing.T) {
	engine, _ := testEngine(openMonday)
	rest := testRestaurant()
	rest.AcceptingOrders = false
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "on_site")
	_, err := engine.PriceCart(context.Background(), rest, 7, req)
	require.ErrorIs(t, err, ErrRestaurantClosed)
}

func TestPriceCartOnlineNeedsProcessorOnboarding(t *testing.T) {
	engine, _ := testEngine(openMonday)
	rest := testRestaurant()
	rest.ProcessorAccountReady = false
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "online")
	_, err := engine.PriceCart(context.Background(), rest, 7, req)
	require.ErrorIs(t, err, ErrPaymentMethodUnsupported)
}

func TestPriceCartRejectsUnacceptedMethod(t *testing.T) {
	engine, _ := testEngine(openMonday)
	rest := testRestaurant()
	rest.AcceptedPayments = pq.StringArray{"on_site"}
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "wallet")
	_, err := engine.PriceCart(context.Background(), rest, 7, req)
	require.ErrorIs(t, err, ErrPaymentMethodUnsupported)
}

func TestPriceCartWalletMapsToOnlineSource(t *testing.T) {
	engine, _ := testEngine(openMonday)
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "wallet")
	draft, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, MethodOnline, draft.PaymentMethod)
	assert.Equal(t, SourceWallet, draft.PaymentSource)
}

func TestPriceCartPickupTime(t *testing.T) {
	engine, _ := testEngine(openMonday)
	req := checkoutReq([]CartLine{{ProductID: 10, Quantity: 1}}, "on_site")

	// Before the lead time.
	early := openMonday.Add(5 * time.Minute)
	req.PickupTime = &early
	_, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrInvalidPickupTime)

	// Inside a closed window.
	closed := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	req.PickupTime = &closed
	_, err = engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.ErrorIs(t, err, ErrInvalidPickupTime)

	// Same day, later open range.
	evening := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	req.PickupTime = &evening
	draft, err := engine.PriceCart(context.Background(), testRestaurant(), 7, req)
	require.NoError(t, err)
	require.NotNil(t, draft.PickupTime)
	assert.True(t, draft.PickupTime.Equal(evening))
}
