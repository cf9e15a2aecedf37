package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event kinds delivered on the processor callback.
const (
	EventCompleted = "completed"
	EventExpired   = "expired"
)

const sessionTTL = 15 * time.Minute

var (
	ErrInvalidSignature  = errors.New("invalid callback signature")
	ErrMalformedCallback = errors.New("malformed callback payload")
)

type Config struct {
	MerchantCode string
	HashSecret   string
	BaseURL      string
	ReturnURL    string
}

// Session is a created hosted-payment-page session. Reference is the
// idempotency key every later callback for this payment carries.
type Session struct {
	Reference   string    `json:"reference"`
	RedirectURL string    `json:"redirect_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CreateSessionRequest struct {
	AmountCents int64
	Description string
}

type CallbackResult struct {
	Event       string
	Reference   string
	AmountCents int64
}

// Client talks to the hosted payment page. Session creation happens during
// checkout; callbacks arrive asynchronously and are verified before use.
type Client interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	VerifyCallback(query url.Values) (*CallbackResult, error)
}

type hostedClient struct {
	cfg Config
}

func NewClient(cfg Config) Client {
	return &hostedClient{cfg: cfg}
}

func (c *hostedClient) CreateSession(_ context.Context, req CreateSessionRequest) (*Session, error) {
	if req.AmountCents <= 0 {
		return nil, errors.New("session amount must be positive")
	}

	ref := uuid.NewString()
	expiresAt := time.Now().Add(sessionTTL)

	params := url.Values{}
	params.Add("pp_MerchantCode", c.cfg.MerchantCode)
	params.Add("pp_Amount", strconv.FormatInt(req.AmountCents, 10))
	params.Add("pp_Ref", ref)
	params.Add("pp_Description", req.Description)
	params.Add("pp_ReturnUrl", c.cfg.ReturnURL)
	params.Add("pp_ExpireTime", expiresAt.UTC().Format("20060102150405"))

	query := params.Encode()
	signature := c.sign(query)

	return &Session{
		Reference:   ref,
		RedirectURL: c.cfg.BaseURL + "?" + query + "&pp_Signature=" + signature,
		ExpiresAt:   expiresAt,
	}, nil
}

func (c *hostedClient) VerifyCallback(query url.Values) (*CallbackResult, error) {
	values := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	signature := values.Get("pp_Signature")
	if signature == "" {
		return nil, ErrMalformedCallback
	}
	values.Del("pp_Signature")

	expected := c.sign(values.Encode())
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	ref := values.Get("pp_Ref")
	if ref == "" {
		return nil, ErrMalformedCallback
	}

	event := values.Get("pp_Status")
	if event != EventCompleted && event != EventExpired {
		return nil, ErrMalformedCallback
	}

	amount, _ := strconv.ParseInt(values.Get("pp_Amount"), 10, 64)

	return &CallbackResult{
		Event:       event,
		Reference:   ref,
		AmountCents: amount,
	}, nil
}

func (c *hostedClient) sign(data string) string {
	h := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
