package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscriptionStatusIsEntitled(t *testing.T) {
	require.True(t, SubscriptionStatusActive.IsEntitled())
	require.True(t, SubscriptionStatusTrialing.IsEntitled())
	require.False(t, SubscriptionStatusPastDue.IsEntitled())
	require.False(t, SubscriptionStatusCanceled.IsEntitled())
	require.False(t, SubscriptionStatusNone.IsEntitled())
}

func TestSnapshotMatches(t *testing.T) {
	snap := &SubscriptionSnapshot{PackageID: "pkg_yearly", Status: SubscriptionStatusActive}

	require.True(t, snap.Matches("pkg_yearly"))
	require.False(t, snap.Matches("pkg_monthly"))
	require.True(t, snap.Matches(""), "no expectation accepts any entitled subscription")

	trial := &SubscriptionSnapshot{PackageID: "pkg_yearly", Status: SubscriptionStatusTrialing}
	require.True(t, trial.Matches("pkg_yearly"))

	lapsed := &SubscriptionSnapshot{PackageID: "pkg_yearly", Status: SubscriptionStatusCanceled}
	require.False(t, lapsed.Matches("pkg_yearly"))

	var nilSnap *SubscriptionSnapshot
	require.False(t, nilSnap.Matches(""))
}

func TestSeverityOrderingAndBlocking(t *testing.T) {
	require.True(t, SeverityLow < SeverityMedium)
	require.True(t, SeverityMedium < SeverityHigh)
	require.True(t, SeverityHigh < SeverityCritical)

	require.False(t, SeverityLow.IsBlocking())
	require.False(t, SeverityMedium.IsBlocking())
	require.True(t, SeverityHigh.IsBlocking())
	require.True(t, SeverityCritical.IsBlocking())
	require.Equal(t, "high", SeverityHigh.String())
}

func TestPaymentOutcomeHelpers(t *testing.T) {
	require.True(t, PaymentOutcome{State: PaymentStateSucceeded}.Succeeded())
	require.True(t, PaymentOutcome{State: PaymentStateProcessing}.InFlight())
	require.True(t, PaymentOutcome{State: PaymentStateCancelled}.Cancelled())
	require.False(t, PaymentOutcome{State: PaymentStateFailed}.Succeeded())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := &HTTPLikeError{}
	app := &AppError{Message: "m", Type: ErrorTypeAPI, Cause: cause}
	require.Equal(t, "m", app.Error())
	require.Equal(t, cause, app.Unwrap())
}

// HTTPLikeError is a trivial error for Unwrap assertions.
type HTTPLikeError struct{}

func (*HTTPLikeError) Error() string { return "boom" }
