// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the requester is still inside its cooldown window.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates a backing store could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrMalformedRecordSequence indicates a flat achievement list whose length
	// is not a multiple of three (name, description, date).
	ErrMalformedRecordSequence = errors.New("malformed record sequence")
)

// CooldownError reports a denied book request together with the configured cooldown.
type CooldownError struct {
	Cooldown  time.Duration
	Remaining time.Duration
	Message   string // localized, ready to show to the requester
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown %s: %s", e.Cooldown, e.Message)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *CooldownError) Unwrap() error { return ErrRateLimited }
