// Package payment sequences a checkout: intent creation, external capture,
// backup verification, and delegation to the subscription poller.
package payment

import "context"

// CaptureStatus is the terminal status the capture SDK reports for a
// payment intent.
type CaptureStatus string

// Capture status constants (lowercase, matching Stripe's wire values).
const (
	CaptureStatusSucceeded       CaptureStatus = "succeeded"
	CaptureStatusProcessing      CaptureStatus = "processing"
	CaptureStatusRequiresAction  CaptureStatus = "requires_action"
	CaptureStatusRequiresPayment CaptureStatus = "requires_payment_method"
	CaptureStatusRequiresConfirm CaptureStatus = "requires_confirmation"
	CaptureStatusCanceled        CaptureStatus = "canceled"
)

// CaptureConfig initializes the external payment-capture surface.
type CaptureConfig struct {
	ClientSecret        string
	MerchantDisplayName string
	ReturnURL           string
	// AllowsDelayedPaymentMethods must stay enabled: recurring billing
	// needs a reusable payment method retained after capture.
	AllowsDelayedPaymentMethods bool
	DefaultBillingName          string
}

// CaptureResult is what the capture surface reports after presentation.
type CaptureResult struct {
	Status CaptureStatus
}

// Capture abstracts the external payment-capture SDK (the payment sheet
// on mobile, a Stripe confirm call in the diagnostic CLI). Present returns
// apperr.ErrUserCancelled when the user dismisses the surface and a
// *CaptureError for SDK-reported failures.
type Capture interface {
	Init(ctx context.Context, cfg CaptureConfig) error
	Present(ctx context.Context) (CaptureResult, error)
}

// CaptureError is an SDK-reported capture failure.
type CaptureError struct {
	Code    string
	Message string
}

func (e *CaptureError) Error() string { return e.Code + " - " + e.Message }

// ErrorCode returns the SDK's failure code.
func (e *CaptureError) ErrorCode() string { return e.Code }
