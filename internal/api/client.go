// Package api is the typed client for the Arcana backend endpoints the
// core consumes. It owns no retry or classification logic of its own;
// all of that lives in the httpclient layer beneath it.
package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/arcana-app/arcana-go/internal/httpclient"
	"github.com/arcana-app/arcana-go/internal/models"
)

// Client calls the backend's payment and subscription endpoints.
type Client struct {
	http *httpclient.Client
}

// NewClient wraps the interceptor'd HTTP client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

type createIntentRequest struct {
	PackageID string `json:"package_id"`
	PriceID   string `json:"price_id"`
	// IdempotencyKey lets the backend collapse double-submits from a
	// retried request into one intent.
	IdempotencyKey string `json:"idempotency_key"`
}

// CreatePaymentIntent asks the backend to open a checkout attempt for the
// given package and price. A nil record with nil error never happens; an
// empty intent from the server is an error.
func (c *Client) CreatePaymentIntent(ctx context.Context, packageID, priceID string) (*models.PaymentIntentRecord, error) {
	req := createIntentRequest{
		PackageID:      packageID,
		PriceID:        priceID,
		IdempotencyKey: uuid.NewString(),
	}
	var record models.PaymentIntentRecord
	if err := c.http.Post(ctx, "/v1/payments/intent", req, &record); err != nil {
		return nil, err
	}
	if record.ClientSecret == "" || record.PaymentIntentID == "" {
		return nil, fmt.Errorf("backend returned incomplete payment intent")
	}
	return &record, nil
}

type verifyRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// VerifyPayment reports a captured intent to the backend as a redundancy
// against webhook delay. Callers treat failures as best-effort.
func (c *Client) VerifyPayment(ctx context.Context, paymentIntentID string) error {
	return c.http.Post(ctx, "/v1/payments/verify", verifyRequest{PaymentIntentID: paymentIntentID}, nil)
}

// CurrentSubscription fetches the server's view of the user's
// subscription. force bypasses any server-side cache.
func (c *Client) CurrentSubscription(ctx context.Context, force bool) (*models.SubscriptionSnapshot, error) {
	path := "/v1/subscription"
	if force {
		path += "?" + url.Values{"refresh": {"true"}}.Encode()
	}
	var snap models.SubscriptionSnapshot
	if err := c.http.Get(ctx, path, &snap); err != nil {
		return nil, err
	}
	snap.FetchedAt = time.Now()
	return &snap, nil
}

// DailyLimit fetches the countdown to the next readings-quota reset.
func (c *Client) DailyLimit(ctx context.Context) (*models.TimerData, error) {
	var timer models.TimerData
	if err := c.http.Get(ctx, "/v1/limits/daily", &timer); err != nil {
		return nil, err
	}
	return &timer, nil
}
