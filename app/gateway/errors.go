package gateway

import "fmt"

// Error is returned for any non-2xx or malformed response from the payment
// provider. StatusCode is the upstream HTTP status, 0 for transport failures.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("payment provider error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment provider error: %s", e.Message)
}

func newError(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}
