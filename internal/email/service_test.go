package email

import (
	"context"
	"encoding/json"
	"testing"

	"foodshop/internal/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func TestSendQueuesJob(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := &Service{redis: client, from: "noreply@foodshop.local", fromName: "FoodShop"}

	mock.Regexp().ExpectLPush(queueKey, `.*"to":"alice@example.com".*`).SetVal(1)

	err := s.Send(context.Background(), "alice@example.com", "Alice", "Order #4 confirmed", "body")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendOrderConfirmation_Body(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := &Service{redis: client}

	var queued Job
	mock.CustomMatch(func(expected, actual []interface{}) error {
		payload, ok := actual[2].([]byte)
		if !ok {
			payload = []byte(actual[2].(string))
		}
		return json.Unmarshal(payload, &queued)
	}).ExpectLPush(queueKey, "ignored").SetVal(1)

	err := s.SendOrderConfirmation(context.Background(), "alice@example.com", "Alice", 4, 1700, "12:30")
	require.NoError(t, err)

	assert.Equal(t, "Order #4 confirmed", queued.Subject)
	assert.Contains(t, queued.Body, "17.00")
	assert.Contains(t, queued.Body, "12:30")
}

func TestQueueLength(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := &Service{redis: client}

	mock.ExpectLLen(queueKey).SetVal(3)

	assert.Equal(t, int64(3), s.QueueLength(context.Background()))
}
