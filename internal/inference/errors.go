package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ModelError reports a failed call to an external model: a transport error,
// a non-200 response, an undecodable body or an open circuit breaker.
type ModelError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *ModelError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s status %d: %s", e.Operation, e.StatusCode, truncate(e.Message, 200))
	}
	return fmt.Sprintf("model %s: %s", e.Operation, truncate(e.Message, 200))
}

func (e *ModelError) Unwrap() error { return e.Err }

// IsModelFailure reports whether err came from an external model call.
func IsModelFailure(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}

// countsAsFailure decides whether an error should trip the breaker. Caller
// cancellation and client-side 4xx errors do not; timeouts do.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var me *ModelError
	if errors.As(err, &me) && me.StatusCode >= 400 && me.StatusCode < 500 {
		switch me.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
		return false
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
