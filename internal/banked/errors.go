package banked

import (
	"fmt"
	"strings"
)

// AuthError reports a 401 from the API: the configured key pair was rejected.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return "banked: invalid credentials - check public key and secret key"
}

// ValidationError reports a rejected create (HTTP 400 or 422) along with the
// per-field details returned by the API.
type ValidationError struct {
	StatusCode int
	Errors     []ErrorDetail
}

// Error concatenates each detail as "code:title," in response order.
func (e *ValidationError) Error() string {
	var b strings.Builder
	for _, detail := range e.Errors {
		b.WriteString(detail.Code)
		b.WriteByte(':')
		b.WriteString(detail.Message)
		b.WriteByte(',')
	}
	return b.String()
}

// APIError surfaces any other non-successful HTTP response, carrying the raw
// body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("banked: api error: status=%d body=%s", e.StatusCode, e.Body)
}
