package payment

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() Client {
	return NewClient(Config{
		MerchantCode: "FOODSHOP",
		HashSecret:   "test-hash-secret",
		BaseURL:      "https://pay.example.com/checkout",
		ReturnURL:    "http://localhost:8080/payments/callback",
	})
}

// signedCallback builds a callback payload the way the processor would:
// signing all parameters except the signature itself.
func signedCallback(t *testing.T, c Client, ref, status string, amount int64) url.Values {
	t.Helper()

	values := url.Values{}
	values.Add("pp_Ref", ref)
	values.Add("pp_Status", status)
	values.Add("pp_Amount", strconv.FormatInt(amount, 10))

	signature := c.(*hostedClient).sign(values.Encode())
	values.Add("pp_Signature", signature)
	return values
}

func TestCreateSession(t *testing.T) {
	c := testClient()

	session, err := c.CreateSession(context.Background(), CreateSessionRequest{
		AmountCents: 1700,
		Description: "order #12",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Reference)
	assert.True(t, strings.HasPrefix(session.RedirectURL, "https://pay.example.com/checkout?"))
	assert.Contains(t, session.RedirectURL, "pp_Amount=1700")
	assert.Contains(t, session.RedirectURL, "pp_Signature=")
	assert.False(t, session.ExpiresAt.IsZero())
}

func TestCreateSession_RejectsNonPositiveAmount(t *testing.T) {
	c := testClient()

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{AmountCents: 0})
	assert.Error(t, err)
}

func TestCreateSession_UniqueReferences(t *testing.T) {
	c := testClient()

	s1, err := c.CreateSession(context.Background(), CreateSessionRequest{AmountCents: 100})
	require.NoError(t, err)
	s2, err := c.CreateSession(context.Background(), CreateSessionRequest{AmountCents: 100})
	require.NoError(t, err)

	assert.NotEqual(t, s1.Reference, s2.Reference)
}

func TestVerifyCallback_Completed(t *testing.T) {
	c := testClient()

	values := signedCallback(t, c, "ref-123", EventCompleted, 1700)

	result, err := c.VerifyCallback(values)
	require.NoError(t, err)
	assert.Equal(t, EventCompleted, result.Event)
	assert.Equal(t, "ref-123", result.Reference)
	assert.Equal(t, int64(1700), result.AmountCents)
}

func TestVerifyCallback_Expired(t *testing.T) {
	c := testClient()

	values := signedCallback(t, c, "ref-456", EventExpired, 0)

	result, err := c.VerifyCallback(values)
	require.NoError(t, err)
	assert.Equal(t, EventExpired, result.Event)
}

func TestVerifyCallback_TamperedAmount(t *testing.T) {
	c := testClient()

	values := signedCallback(t, c, "ref-123", EventCompleted, 1700)
	values.Set("pp_Amount", "1")

	_, err := c.VerifyCallback(values)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyCallback_MissingSignature(t *testing.T) {
	c := testClient()

	values := url.Values{}
	values.Add("pp_Ref", "ref-123")
	values.Add("pp_Status", EventCompleted)

	_, err := c.VerifyCallback(values)
	assert.ErrorIs(t, err, ErrMalformedCallback)
}

func TestVerifyCallback_UnknownStatus(t *testing.T) {
	c := testClient()

	values := signedCallback(t, c, "ref-123", "refunded", 1700)

	_, err := c.VerifyCallback(values)
	assert.ErrorIs(t, err, ErrMalformedCallback)
}

func TestVerifyCallback_WrongSecret(t *testing.T) {
	signer := testClient()
	verifier := NewClient(Config{
		MerchantCode: "FOODSHOP",
		HashSecret:   "different-secret",
		BaseURL:      "https://pay.example.com/checkout",
	})

	values := signedCallback(t, signer, "ref-123", EventCompleted, 1700)

	_, err := verifier.VerifyCallback(values)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
