package lookalike

import (
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidBody     Kind = "INVALID_BODY"
	KindMissingImage    Kind = "MISSING_IMAGE"
	KindConfig          Kind = "CONFIG_ERROR"
	KindAuth            Kind = "AUTH_ERROR"
	KindProvider        Kind = "PROVIDER_ERROR"
	KindNoImage         Kind = "NO_IMAGE"
	KindPayloadTooLarge Kind = "PAYLOAD_TOO_LARGE"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// MaxBodyBytes is the request body ceiling for POST /api/lookalike.
const MaxBodyBytes = 12 * 1024 * 1024

// Error is the error type surfaced to HTTP callers. Status is the upstream
// HTTP status for provider failures and zero otherwise.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status code returned to the caller for this error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidBody, KindMissingImage:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func NewInvalidBody() *Error {
	return &Error{Kind: KindInvalidBody, Message: "Invalid JSON body"}
}

func NewMissingImage() *Error {
	return &Error{Kind: KindMissingImage, Message: "imageDataUrl is required and must be a data:image URL"}
}

func NewPayloadTooLarge() *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: "Payload too large"}
}

func NewConfigError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message, Status: http.StatusUnauthorized}
}

func NewProviderError(status int, message string) *Error {
	return &Error{Kind: KindProvider, Message: message, Status: status}
}

func NewNoImageError() *Error {
	return &Error{Kind: KindNoImage, Message: "No image found in provider response"}
}

func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// WrapProvider marks a transport failure (no HTTP response) as a provider error.
func WrapProvider(provider string, err error) *Error {
	return &Error{
		Kind:    KindProvider,
		Message: fmt.Sprintf("%s request failed: %v", provider, err),
		Err:     err,
	}
}

// Truncate keeps at most n runes of a provider error body.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
