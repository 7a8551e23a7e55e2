package models

// PaymentState is the terminal state of one checkout invocation.
type PaymentState string

// Payment state constants. Exactly one applies per invocation.
const (
	// PaymentStateSucceeded: capture confirmed and the subscription was
	// observed entitled before the reconciliation window closed.
	PaymentStateSucceeded PaymentState = "succeeded"
	// PaymentStateProcessing: capture confirmed but server-side
	// reconciliation outlived the polling window. The payment is not
	// failed; activation completes asynchronously.
	PaymentStateProcessing PaymentState = "processing"
	// PaymentStateCancelled: the user dismissed the capture sheet.
	// Expected user action, not a system failure.
	PaymentStateCancelled PaymentState = "cancelled"
	// PaymentStateFailed: any other terminal failure.
	PaymentStateFailed PaymentState = "failed"
)

// PaymentOutcome is the tagged-union result of the checkout workflow.
// Callers switch on State; Subscription is set only for Succeeded, Err only
// for Failed, and Message carries the user-facing line for Processing and
// Failed states.
type PaymentOutcome struct {
	State        PaymentState          `json:"state"`
	Subscription *SubscriptionSnapshot `json:"subscription,omitempty"`
	Message      string                `json:"message,omitempty"`
	Err          *AppError             `json:"error,omitempty"`
}

// Succeeded returns true if the checkout fully completed.
func (o PaymentOutcome) Succeeded() bool { return o.State == PaymentStateSucceeded }

// InFlight returns true if the payment was captured but activation is
// still reconciling.
func (o PaymentOutcome) InFlight() bool { return o.State == PaymentStateProcessing }

// Cancelled returns true if the user backed out of the capture sheet.
func (o PaymentOutcome) Cancelled() bool { return o.State == PaymentStateCancelled }
