package generation

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrUpstreamRateLimit indicates the model provider returned 429.
type ErrUpstreamRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrUpstreamRateLimit) Error() string {
	return fmt.Sprintf("generation provider rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrUpstreamRateLimit) Unwrap() error { return e.Err }

// ErrInvalidOutput indicates the model returned content that does not
// form a usable question.
type ErrInvalidOutput struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidOutput) Error() string {
	return fmt.Sprintf("invalid generation output: %v", e.Err)
}

func (e *ErrInvalidOutput) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation provider unavailable: %v", e.Err)
	}
	return "generation provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
