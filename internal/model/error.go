package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidOrder       = "INVALID_ORDER"
	ErrCodeInvalidProducts    = "INVALID_PRODUCTS"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeNotifyFailed       = "NOTIFY_FAILED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business error with a stable code.
// Two domain errors match under errors.Is when their codes are equal, so a
// detailed error still matches the sentinel of its kind.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidJSON        = NewDomainError(ErrCodeInvalidJSON, "Request body is not valid JSON")
	ErrInvalidOrder       = NewDomainError(ErrCodeInvalidOrder, "Order is invalid")
	ErrInvalidProducts    = NewDomainError(ErrCodeInvalidProducts, "Product list is invalid")
	ErrStorageUnavailable = NewDomainError(ErrCodeStorageUnavailable, "Storage is unavailable")
	ErrNotifyFailed       = NewDomainError(ErrCodeNotifyFailed, "Order notification could not be delivered")
	ErrRateLimited        = NewDomainError(ErrCodeRateLimited, "Too many requests, try again later")
)

// InvalidOrder returns an INVALID_ORDER error with the given detail.
func InvalidOrder(detail string) *DomainError {
	return NewDomainError(ErrCodeInvalidOrder, detail)
}

// InvalidProducts returns an INVALID_PRODUCTS error with the given detail.
func InvalidProducts(detail string) *DomainError {
	return NewDomainError(ErrCodeInvalidProducts, detail)
}

// StorageUnavailable wraps a storage failure.
func StorageUnavailable(err error) *DomainError {
	return &DomainError{Code: ErrCodeStorageUnavailable, Message: ErrStorageUnavailable.Message, Err: err}
}

// NotifyFailed wraps a notification delivery failure.
func NotifyFailed(err error) *DomainError {
	return &DomainError{Code: ErrCodeNotifyFailed, Message: ErrNotifyFailed.Message, Err: err}
}
