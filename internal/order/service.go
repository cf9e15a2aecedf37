package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"foodshop/internal/logger"
	"foodshop/internal/metrics"
	"foodshop/internal/notify"
	"foodshop/internal/payment"
	"foodshop/internal/restaurant"
	"foodshop/internal/schedule"
	"foodshop/internal/user"
	"foodshop/internal/wallet"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrConflict          = errors.New("order changed concurrently, retry")
	ErrUnknownReference  = errors.New("callback reference matches no order or topup")
)

// EmailSender is the slice of the mailer the order flow needs.
type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, to, name string, orderNumber int, totalCents int64, pickup string) error
	SendOrderReady(ctx context.Context, to, name string, orderNumber int) error
	SendOrderCancelled(ctx context.Context, to, name string, orderNumber int) error
}

type Service struct {
	repo        Repository
	restaurants restaurant.Repository
	engine      *Engine
	payments    payment.Client
	wallets     wallet.Repository
	users       user.Repository
	publisher   notify.Publisher
	emails      EmailSender
}

func NewService(repo Repository, restaurants restaurant.Repository, engine *Engine, payments payment.Client, wallets wallet.Repository, users user.Repository, publisher notify.Publisher, emails EmailSender) *Service {
	return &Service{
		repo:        repo,
		restaurants: restaurants,
		engine:      engine,
		payments:    payments,
		wallets:     wallets,
		users:       users,
		publisher:   publisher,
		emails:      emails,
	}
}

// Checkout prices the cart and drives creation for the requested payment
// method. On-site and wallet orders come back committed; online orders come
// back with the processor redirect target.
func (s *Service) Checkout(ctx context.Context, restaurantID, customerID int, req CheckoutRequest) (*CheckoutResponse, error) {
	rest, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	draft, err := s.engine.PriceCart(ctx, rest, customerID, req)
	if err != nil {
		metrics.RecordCheckoutRejection(rejectionReason(err))
		return nil, err
	}

	switch {
	case draft.PaymentSource == SourceWallet:
		return s.checkoutWallet(ctx, draft)
	case draft.PaymentMethod == MethodOnline:
		return s.checkoutOnline(ctx, draft)
	default:
		return s.checkoutOnSite(ctx, draft)
	}
}

func (s *Service) checkoutOnSite(ctx context.Context, draft *Draft) (*CheckoutResponse, error) {
	o, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.afterCreation(ctx, o)
	return &CheckoutResponse{Order: o}, nil
}

func (s *Service) checkoutWallet(ctx context.Context, draft *Draft) (*CheckoutResponse, error) {
	o, balance, err := s.repo.CreateWalletPaid(ctx, draft)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			metrics.RecordCheckoutRejection("insufficient_balance")
		}
		return nil, err
	}
	metrics.RecordWalletDebit()
	s.publisher.PublishWalletEvent(ctx, notify.WalletEvent{
		Type:         notify.EventWalletChanged,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		BalanceCents: balance,
		At:           time.Now(),
	})
	s.afterCreation(ctx, o)
	return &CheckoutResponse{Order: o}, nil
}

func (s *Service) checkoutOnline(ctx context.Context, draft *Draft) (*CheckoutResponse, error) {
	var redirectURL string
	o, err := s.repo.CreateOnline(ctx, draft, func(ctx context.Context, o *Order) (string, error) {
		session, err := s.payments.CreateSession(ctx, payment.CreateSessionRequest{
			AmountCents: o.TotalCents,
			Description: fmt.Sprintf("order #%d", o.Number),
		})
		if err != nil {
			return "", err
		}
		redirectURL = session.RedirectURL
		return session.Reference, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCreation(ctx, o)
	return &CheckoutResponse{Order: o, RedirectURL: redirectURL}, nil
}

func (s *Service) afterCreation(ctx context.Context, o *Order) {
	metrics.RecordOrder(o.PaymentMethod, o.PaymentSource)
	s.publisher.PublishOrderEvent(ctx, orderEvent(notify.EventOrderCreated, o))

	// Online orders are confirmed once the processor reports payment.
	if !o.Paid {
		return
	}
	s.sendConfirmation(ctx, o)
}

func (s *Service) sendConfirmation(ctx context.Context, o *Order) {
	if s.emails == nil {
		return
	}
	u, err := s.users.FindByID(ctx, o.CustomerID)
	if err != nil {
		logger.Error("load customer for confirmation email", "order_id", o.ID, "error", err)
		return
	}
	pickup := "as soon as possible"
	if o.PickupTime != nil {
		pickup = schedule.FormatMinute(o.PickupTime.Hour()*60 + o.PickupTime.Minute())
	}
	if err := s.emails.SendOrderConfirmation(ctx, u.Email, u.Name, o.Number, o.TotalCents, pickup); err != nil {
		logger.Error("queue confirmation email", "order_id", o.ID, "error", err)
	}
}

// HandleCallback verifies and applies a processor callback. Callbacks are
// delivered at least once; every branch below tolerates replays.
func (s *Service) HandleCallback(ctx context.Context, query url.Values) error {
	result, err := s.payments.VerifyCallback(query)
	if err != nil {
		metrics.RecordPaymentCallback("unknown", "rejected")
		return err
	}

	if err := s.applyOrderCallback(ctx, result); err == nil {
		metrics.RecordPaymentCallback(result.Event, "order")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.applyTopupCallback(ctx, result); err != nil {
		if errors.Is(err, wallet.ErrIntentNotFound) {
			metrics.RecordPaymentCallback(result.Event, "unmatched")
			return ErrUnknownReference
		}
		return err
	}
	metrics.RecordPaymentCallback(result.Event, "topup")
	return nil
}

func (s *Service) applyOrderCallback(ctx context.Context, result *payment.CallbackResult) error {
	switch result.Event {
	case payment.EventCompleted:
		o, updated, err := s.repo.MarkPaidBySession(ctx, result.Reference)
		if err != nil {
			return err
		}
		if !updated {
			// Already paid, cancelled in the meantime, or the reference
			// belongs to a topup.
			existing, err := s.repo.GetBySessionRef(ctx, result.Reference)
			if err != nil {
				return err
			}
			if !existing.Paid && existing.Status == StatusCancelled {
				logger.Error("payment confirmed for cancelled order, needs manual reconciliation",
					"order_id", existing.ID, "reference", result.Reference)
			}
			return nil
		}
		s.publisher.PublishOrderEvent(ctx, orderEvent(notify.EventOrderPaid, o))
		s.sendConfirmation(ctx, o)
		return nil

	case payment.EventExpired:
		o, updated, err := s.repo.CancelBySessionIfUnpaidNew(ctx, result.Reference)
		if err != nil {
			return err
		}
		if !updated {
			if _, err := s.repo.GetBySessionRef(ctx, result.Reference); err != nil {
				return err
			}
			return nil
		}
		metrics.RecordStatusTransition(StatusNew, StatusCancelled)
		s.publisher.PublishOrderEvent(ctx, orderEvent(notify.EventOrderStatusChanged, o))
		return nil

	default:
		return fmt.Errorf("unhandled callback event %q", result.Event)
	}
}

func (s *Service) applyTopupCallback(ctx context.Context, result *payment.CallbackResult) error {
	intent, err := s.wallets.GetTopupIntentByReference(ctx, result.Reference)
	if err != nil {
		return err
	}

	switch result.Event {
	case payment.EventCompleted:
		if _, err := s.wallets.SetTopupIntentStatus(ctx, intent.ID, wallet.TopupPending, wallet.TopupCompleted); err != nil {
			return err
		}
		// Credit carries the session reference as its idempotency key, so a
		// replayed confirmation cannot add money twice.
		ref := result.Reference
		balance, err := s.wallets.Credit(ctx, intent.CustomerID, intent.RestaurantID, intent.AmountCents,
			wallet.TypeTopupProcessor, "wallet top-up", wallet.CreditOptions{IdempotencyKey: &ref})
		if err != nil {
			return err
		}
		metrics.RecordWalletTopUp(wallet.TypeTopupProcessor)
		s.publisher.PublishWalletEvent(ctx, notify.WalletEvent{
			Type:         notify.EventWalletChanged,
			CustomerID:   intent.CustomerID,
			RestaurantID: intent.RestaurantID,
			BalanceCents: balance,
			At:           time.Now(),
		})
		return nil

	case payment.EventExpired:
		_, err := s.wallets.SetTopupIntentStatus(ctx, intent.ID, wallet.TopupPending, wallet.TopupFailed)
		return err

	default:
		return fmt.Errorf("unhandled callback event %q", result.Event)
	}
}

// AdvanceStatus applies one forward step by staff of the order's restaurant.
func (s *Service) AdvanceStatus(ctx context.Context, staffRestaurantID, orderID int, to string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != staffRestaurantID {
		return nil, ErrNotFound
	}
	if nextStatus[o.Status] != to {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConflict
	}

	from := o.Status
	o.Status = to
	metrics.RecordStatusTransition(from, to)
	s.publisher.PublishOrderEvent(ctx, orderEvent(notify.EventOrderStatusChanged, o))
	if to == StatusReady && s.emails != nil {
		if u, err := s.users.FindByID(ctx, o.CustomerID); err == nil {
			if err := s.emails.SendOrderReady(ctx, u.Email, u.Name, o.Number); err != nil {
				logger.Error("queue ready email", "order_id", o.ID, "error", err)
			}
		}
	}
	return o, nil
}

// Cancel terminates a non-terminal order. A wallet-paid order gets its total
// credited back as a refund entry.
func (s *Service) Cancel(ctx context.Context, staffRestaurantID, orderID int) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != staffRestaurantID {
		return nil, ErrNotFound
	}
	if isTerminal(o.Status) {
		return nil, ErrInvalidTransition
	}

	from := o.Status
	cancelled, refundBalance, updated, err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConflict
	}
	cancelled.Items = o.Items

	if refundBalance != nil {
		s.publisher.PublishWalletEvent(ctx, notify.WalletEvent{
			Type:         notify.EventWalletChanged,
			CustomerID:   cancelled.CustomerID,
			RestaurantID: cancelled.RestaurantID,
			BalanceCents: *refundBalance,
			At:           time.Now(),
		})
	}

	metrics.RecordStatusTransition(from, StatusCancelled)
	s.publisher.PublishOrderEvent(ctx, orderEvent(notify.EventOrderStatusChanged, cancelled))
	if s.emails != nil {
		if u, err := s.users.FindByID(ctx, cancelled.CustomerID); err == nil {
			if err := s.emails.SendOrderCancelled(ctx, u.Email, u.Name, cancelled.Number); err != nil {
				logger.Error("queue cancellation email", "order_id", cancelled.ID, "error", err)
			}
		}
	}
	return cancelled, nil
}

// MarkCashCollected records that cash changed hands for an on-site order.
// It is a reconciliation timestamp, not a status transition.
func (s *Service) MarkCashCollected(ctx context.Context, staffRestaurantID, orderID int) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != staffRestaurantID {
		return nil, ErrNotFound
	}
	if o.PaymentMethod != MethodOnSite {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updated, err := s.repo.MarkCashCollected(ctx, orderID, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConflict
	}
	o.CashCollectedAt = &now
	return o, nil
}

func (s *Service) GetForCustomer(ctx context.Context, customerID int, publicID string) (*Order, error) {
	o, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID, limit, offset int) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ListForRestaurant(ctx context.Context, restaurantID int, status string, limit, offset int) ([]Order, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID, status, limit, offset)
}

func orderEvent(eventType string, o *Order) notify.OrderEvent {
	return notify.OrderEvent{
		Type:         eventType,
		OrderID:      o.ID,
		PublicID:     o.PublicID,
		Number:       o.Number,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		Paid:         o.Paid,
		At:           time.Now(),
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrCatalogMismatch):
		return "catalog_mismatch"
	case errors.Is(err, ErrItemUnavailable):
		return "item_unavailable"
	case errors.Is(err, ErrRestaurantClosed):
		return "restaurant_closed"
	case errors.Is(err, ErrPaymentMethodUnsupported):
		return "payment_method"
	case errors.Is(err, ErrInvalidPickupTime):
		return "pickup_time"
	default:
		return "other"
	}
}
