package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeUnsupportedDomain   = "UNSUPPORTED_DOMAIN"
	ErrCodeUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
	ErrCodeUpstreamHTTP        = "UPSTREAM_HTTP_ERROR"
	ErrCodeUpstreamBlocked     = "UPSTREAM_BLOCKED"
	ErrCodeBlobNotFound        = "DATA_BLOB_NOT_FOUND"
	ErrCodeBlobParse           = "DATA_BLOB_PARSE_ERROR"
	ErrCodeSchemaMismatch      = "SCHEMA_MISMATCH"

	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Err     error // wrapped original error

	// UpstreamStatus is the status code observed from the product page.
	// Only set for ErrCodeUpstreamHTTP and ErrCodeUpstreamBlocked.
	UpstreamStatus int
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// NewUpstreamHTTPError creates the error for a non-200 product page response.
func NewUpstreamHTTPError(status int) *ExtractError {
	return &ExtractError{
		Code:           ErrCodeUpstreamHTTP,
		Message:        fmt.Sprintf("fetch: upstream returned HTTP %d", status),
		UpstreamStatus: status,
	}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
// The wrapped cause is part of the message so the failing stage can be identified.
func (e *ExtractError) ToDetail() *ErrorDetail {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return &ErrorDetail{Code: e.Code, Message: msg}
}
