package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/arcana-app/arcana-go/internal/i18n"
	"github.com/arcana-app/arcana-go/internal/models"
)

// Parse classifies any raised failure into a normalized AppError. It is
// total: every input, including nil, yields a well-formed record with a
// non-empty message, and it never panics. The caller-supplied ctx map is
// attached verbatim.
//
// Priority: already-classified > user cancel > network > HTTP status >
// domain code > generic error.
func Parse(err error, ctx map[string]string) *models.AppError {
	if err == nil {
		return unknown(nil, ctx)
	}

	// Already normalized: keep the original record, it is immutable.
	var app *models.AppError
	if errors.As(err, &app) {
		return app
	}

	if IsUserCancelled(err) {
		return &models.AppError{
			Type:     models.ErrorTypeUnknown,
			Severity: models.SeverityLow,
			Message:  i18n.T("payment.cancelled", nil),
			Code:     "USER_CANCELLED",
			Context:  ctx,
			Cause:    err,
		}
	}

	var netf *NetworkFailure
	if errors.As(err, &netf) || isTransportError(err) {
		return &models.AppError{
			Type:      models.ErrorTypeNetwork,
			Severity:  models.SeverityMedium,
			Message:   i18n.T("errors.network", nil),
			Code:      models.CodeNetworkError,
			Retryable: true,
			Context:   ctx,
			Cause:     err,
		}
	}

	var httpf *HTTPFailure
	if errors.As(err, &httpf) {
		return classifyStatus(httpf, ctx)
	}

	var domf *DomainFailure
	if errors.As(err, &domf) {
		return classifyDomain(domf, ctx)
	}

	// Generic error: code is derived from the concrete type so the ring
	// buffer still tells variants apart.
	return &models.AppError{
		Type:     models.ErrorTypeUnknown,
		Severity: models.SeverityMedium,
		Message:  i18n.T("errors.unknown", nil),
		Code:     fmt.Sprintf("%T", err),
		Context:  ctx,
		Cause:    err,
	}
}

func classifyStatus(f *HTTPFailure, ctx map[string]string) *models.AppError {
	app := &models.AppError{
		StatusCode: f.StatusCode,
		Context:    ctx,
		Cause:      f,
	}
	switch f.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		app.Type = models.ErrorTypeAuthentication
		app.Severity = models.SeverityHigh
		app.Message = i18n.T("errors.auth", nil)
		app.Code = models.CodeAuthError
	case http.StatusNotFound:
		app.Type = models.ErrorTypeAPI
		app.Severity = models.SeverityLow
		app.Message = i18n.T("errors.not_found", nil)
		app.Code = models.CodeNotFound
	case http.StatusUnprocessableEntity:
		app.Type = models.ErrorTypeValidation
		app.Severity = models.SeverityMedium
		app.Message = firstNonEmpty(f.Body, i18n.T("errors.validation", nil))
		app.Code = models.CodeValidationError
	case http.StatusTooManyRequests:
		app.Type = models.ErrorTypeAPI
		app.Severity = models.SeverityMedium
		app.Message = i18n.T("errors.rate_limit", nil)
		app.Code = models.CodeRateLimit
		app.Retryable = true
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		app.Type = models.ErrorTypeAPI
		app.Severity = models.SeverityHigh
		app.Message = i18n.T("errors.server", nil)
		app.Code = models.CodeServerError
		app.Retryable = true
	default:
		app.Type = models.ErrorTypeAPI
		app.Severity = models.SeverityMedium
		app.Message = firstNonEmpty(f.Body, i18n.T("errors.api", nil))
		app.Code = models.CodeAPIError
		app.Retryable = f.StatusCode >= 500 || f.StatusCode == http.StatusRequestTimeout
	}
	return app
}

func classifyDomain(f *DomainFailure, ctx map[string]string) *models.AppError {
	app := &models.AppError{
		Context: ctx,
		Cause:   f,
	}
	switch f.Code {
	case DomainCodePremiumRequired:
		app.Type = models.ErrorTypePermission
		app.Severity = models.SeverityMedium
		app.Message = i18n.T("errors.premium_required", nil)
		app.Code = f.Code
	case DomainCodeDailyLimit:
		app.Type = models.ErrorTypePermission
		app.Severity = models.SeverityLow
		app.Message = i18n.T("errors.daily_limit", f.Payload)
		app.Code = f.Code
	default:
		app.Type = models.ErrorTypePayment
		app.Severity = models.SeverityHigh
		app.Message = firstNonEmpty(f.Message, i18n.T("errors.api", nil))
		app.Code = f.Code
	}
	return app
}

func unknown(err error, ctx map[string]string) *models.AppError {
	return &models.AppError{
		Type:     models.ErrorTypeUnknown,
		Severity: models.SeverityMedium,
		Message:  i18n.T("errors.unknown", nil),
		Code:     models.CodeUnknownError,
		Context:  ctx,
		Cause:    err,
	}
}

// isTransportError covers raw errors from net/http that were not wrapped
// into a NetworkFailure at the call site.
func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Retryable reports whether the retry engine may re-attempt the operation
// that raised err. Authentication and validation failures are never
// retryable; neither is user cancellation.
func Retryable(err error) bool {
	if err == nil || IsUserCancelled(err) {
		return false
	}
	return Parse(err, nil).Retryable
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
