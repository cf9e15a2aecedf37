package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodshop/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Event types published by the order kernel.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
	EventWalletChanged      = "wallet.balance_changed"
)

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"order_id"`
	PublicID     string    `json:"public_id"`
	Number       int       `json:"number"`
	RestaurantID int       `json:"restaurant_id"`
	CustomerID   int       `json:"customer_id"`
	Status       string    `json:"status"`
	Paid         bool      `json:"paid"`
	At           time.Time `json:"at"`
}

type WalletEvent struct {
	Type         string    `json:"type"`
	CustomerID   int       `json:"customer_id"`
	RestaurantID int       `json:"restaurant_id"`
	BalanceCents int64     `json:"balance_cents"`
	At           time.Time `json:"at"`
}

// Publisher is the abstract event sink the kernel reports state changes to.
// Transport to connected clients (websocket relay, polling, log tailing) is
// someone else's problem.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent)
	PublishWalletEvent(ctx context.Context, event WalletEvent)
}

// RedisPublisher fans events out over Redis pub/sub. Staff dashboards
// subscribe per restaurant, customer clients per customer.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr string) *RedisPublisher {
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func NewRedisPublisherWithClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func OrderChannel(restaurantID int) string {
	return fmt.Sprintf("restaurant:%d:orders", restaurantID)
}

func WalletChannel(customerID int) string {
	return fmt.Sprintf("customer:%d:wallet", customerID)
}

func (p *RedisPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal order event: %v", err)
		return
	}

	if err := p.client.Publish(ctx, OrderChannel(event.RestaurantID), data).Err(); err != nil {
		logger.Errorf("Failed to publish order event for order %d: %v", event.OrderID, err)
	}
}

func (p *RedisPublisher) PublishWalletEvent(ctx context.Context, event WalletEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal wallet event: %v", err)
		return
	}

	if err := p.client.Publish(ctx, WalletChannel(event.CustomerID), data).Err(); err != nil {
		logger.Errorf("Failed to publish wallet event for customer %d: %v", event.CustomerID, err)
	}
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent)   {}
func (NopPublisher) PublishWalletEvent(context.Context, WalletEvent) {}
