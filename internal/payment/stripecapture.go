package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/arcana-app/arcana-go/internal/apperr"
)

// StripeCapture implements Capture by confirming the payment intent
// directly against Stripe's API with a saved payment method. On mobile the
// capture surface is the native payment sheet; for the diagnostic CLI this
// adapter fills the same role headlessly (test mode only).
type StripeCapture struct {
	api           *client.API
	paymentMethod string
	cfg           CaptureConfig
	initialized   bool
}

// NewStripeCapture builds the adapter. paymentMethod is the Stripe payment
// method id to confirm with (e.g. pm_card_visa in test mode).
func NewStripeCapture(apiKey, paymentMethod string) *StripeCapture {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeCapture{api: api, paymentMethod: paymentMethod}
}

// Init validates and retains the capture configuration.
func (s *StripeCapture) Init(_ context.Context, cfg CaptureConfig) error {
	if cfg.ClientSecret == "" {
		return &CaptureError{Code: "invalid_client_secret", Message: "payment intent client secret is empty"}
	}
	if _, err := intentIDFromSecret(cfg.ClientSecret); err != nil {
		return &CaptureError{Code: "invalid_client_secret", Message: err.Error()}
	}
	s.cfg = cfg
	s.initialized = true
	return nil
}

// Present confirms the intent and reports its terminal status. Transient
// Stripe failures surface as network failures so the classifier marks
// them retryable; card and request errors become CaptureErrors.
func (s *StripeCapture) Present(_ context.Context) (CaptureResult, error) {
	if !s.initialized {
		return CaptureResult{}, &CaptureError{Code: "not_initialized", Message: "capture presented before init"}
	}

	id, err := intentIDFromSecret(s.cfg.ClientSecret)
	if err != nil {
		return CaptureResult{}, &CaptureError{Code: "invalid_client_secret", Message: err.Error()}
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(s.paymentMethod),
		ReturnURL:     stripe.String(s.cfg.ReturnURL),
	}
	intent, err := s.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return CaptureResult{}, mapStripeError(err)
	}
	return CaptureResult{Status: CaptureStatus(intent.Status)}, nil
}

// mapStripeError translates a Stripe failure into the client taxonomy.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return &apperr.NetworkFailure{Op: "stripe confirm", Err: err}
	}
	if retryableStripeError(stripeErr) {
		return &apperr.NetworkFailure{Op: "stripe confirm", Err: stripeErr}
	}
	return &CaptureError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
}

// retryableStripeError mirrors the backend retry policy for Stripe:
// 5xx and throttling are transient, card and request errors are not.
func retryableStripeError(stripeErr *stripe.Error) bool {
	if stripeErr.HTTPStatusCode >= 500 && stripeErr.HTTPStatusCode < 600 {
		return true
	}
	switch stripeErr.Code {
	case stripe.ErrorCodeRateLimit, stripe.ErrorCodeLockTimeout:
		return true
	}
	return false
}

// intentIDFromSecret extracts the payment intent id from a client secret
// of the form pi_xxx_secret_yyy.
func intentIDFromSecret(secret string) (string, error) {
	id, _, found := strings.Cut(secret, "_secret_")
	if !found || !strings.HasPrefix(id, "pi_") {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
