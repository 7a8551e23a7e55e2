package models

import "time"

// ErrorType is the coarse classification of a failure.
type ErrorType string

// Error type constants.
const (
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeAPI            ErrorType = "api"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypePermission     ErrorType = "permission"
	ErrorTypePayment        ErrorType = "payment"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// Severity orders failures by how disruptive they are to the user.
// It governs presentation: Low/Medium render as a toast, High/Critical
// as a blocking alert.
type Severity int

// Severity constants, lowest disruption first.
const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsBlocking returns true if the severity warrants a blocking alert
// rather than a toast.
func (s Severity) IsBlocking() bool {
	return s >= SeverityHigh
}

// Machine-readable error codes attached by the classifier.
const (
	CodeNetworkError    = "NETWORK_ERROR"
	CodeAuthError       = "AUTH_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeRateLimit       = "RATE_LIMIT"
	CodeServerError     = "SERVER_ERROR"
	CodeAPIError        = "API_ERROR"
	CodePaymentError    = "PAYMENT_ERROR"
	CodeUnknownError    = "UNKNOWN_ERROR"
)

// AppError is the normalized failure record produced by the classifier.
// It is constructed once per failure and immutable thereafter; the logger
// and UI surfaces consume it read-only.
type AppError struct {
	Type     ErrorType `json:"type"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Code     string    `json:"code"`
	// StatusCode is the transport status; zero for non-API-origin errors.
	StatusCode int  `json:"status_code,omitempty"`
	Retryable  bool `json:"retryable"`
	// Context is a caller-supplied diagnostic payload. The classifier
	// attaches it verbatim and never parses it.
	Context map[string]string `json:"context,omitempty"`
	// Cause is the original raw error, kept for diagnostics only and
	// never surfaced to the user.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the original raw error to errors.Is/As chains.
func (e *AppError) Unwrap() error { return e.Cause }

// ErrorCode returns the machine-readable code for this error.
func (e *AppError) ErrorCode() string { return e.Code }

// CodedError is implemented by enriched errors that carry a machine-readable
// code. The transport and output packages use this interface to avoid an
// import cycle with the classifier.
type CodedError interface {
	error
	ErrorCode() string
}

// LoggedError is an AppError captured by the diagnostics ring buffer,
// stamped at log time.
type LoggedError struct {
	*AppError
	Timestamp time.Time `json:"timestamp"`
}
