package services

import "errors"

// Expected outcomes are reported as typed errors decided here at the
// storage boundary, so callers branch with errors.Is instead of
// inspecting driver-specific error codes.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("invalid input")

	// ErrSubscriptionExists is returned when an active subscription
	// for the same (user, food) pair already exists.
	ErrSubscriptionExists = errors.New("subscription already exists for this food")
)
