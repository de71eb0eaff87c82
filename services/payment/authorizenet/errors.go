package authorizenet

import (
	"errors"
	"fmt"
)

// ErrorType discriminates the failure classes a gateway call can produce.
type ErrorType string

const (
	// ErrorTypeAuthentication is a transport failure with HTTP 401.
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeRateLimit is a transport failure with HTTP 429.
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeGateway is any other transport or network failure.
	ErrorTypeGateway ErrorType = "gateway_error"
	// ErrorTypeInvalidRequest is a request the gateway's own envelope
	// rejected (messages.resultCode other than "Ok").
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeTransaction is a business-level decline, void or refund
	// failure reported in transactionResponse.errors.
	ErrorTypeTransaction ErrorType = "transaction_error"
	// ErrorTypeAPIFormat is a response body that failed to parse as JSON
	// even after BOM trimming.
	ErrorTypeAPIFormat ErrorType = "api_format_error"
)

// Error is a classified gateway failure. Message always carries the
// gateway's own text verbatim.
type Error struct {
	Type       ErrorType
	Code       string
	Message    string
	StatusCode int
	RequestID  string
	Raw        string // raw response text, set for api_format_error only
	cause      error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("authorizenet: %s: %s (code %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("authorizenet: %s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsType reports whether err is a gateway Error of the given type.
func IsType(err error, t ErrorType) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Type == t
}
