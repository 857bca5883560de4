package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration errors (CONFIG_*) — the caller supplied insufficient or
	// contradictory payment instructions; always caller-fixable, never retried
	ErrorCodeConfigMissingPaymentMethod ErrorCode = "CONFIG_MISSING_PAYMENT_METHOD"
	ErrorCodeConfigMissingField         ErrorCode = "CONFIG_MISSING_FIELD"
	ErrorCodeConfigInvalidCredentials   ErrorCode = "CONFIG_INVALID_CREDENTIALS"

	// Gateway errors (GATEWAY_*) — malformed or missing gateway response,
	// or a transport failure reaching the gateway
	ErrorCodeGatewayError        ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayNullResponse ErrorCode = "GATEWAY_NULL_RESPONSE"

	// Transaction outcomes (TXN_*) — the gateway executed the request and
	// turned it down; a business outcome, not a system failure
	ErrorCodeTxnDeclined ErrorCode = "TXN_DECLINED"
	ErrorCodeTxnRejected ErrorCode = "TXN_REJECTED"
)

// User-facing messages for each branch of the taxonomy. Internal messages
// carry the specifics; these are what a customer is shown.
const (
	UserMessageGatewayRejected = "The gateway rejected the request, you may wish to try again."
	UserMessageGatewayError    = "An error occurred while executing the request."
	UserMessageCardDeclined    = "The card was declined."
)

// DomainError represents a structured driver error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsConfigurationError checks if an error is a caller-fixable configuration error
func IsConfigurationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeConfigMissingPaymentMethod ||
		code == ErrorCodeConfigMissingField ||
		code == ErrorCodeConfigInvalidCredentials
}

// IsGatewayError checks if an error reflects a transport failure or a
// malformed gateway response
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayError ||
		code == ErrorCodeGatewayNullResponse
}

// Sentinel instances
var (
	ErrMissingPaymentMethod = NewDomainError(ErrorCodeConfigMissingPaymentMethod,
		"must provide a payment source, token, or profile identifiers")

	ErrNullResponse            = NewDomainError(ErrorCodeGatewayNullResponse, "null response")
	ErrNullTransactionResponse = NewDomainError(ErrorCodeGatewayNullResponse, "null transaction response")
)
