// Package ai is the client for the external language-model gateway. Every
// feature here is a single prompt-and-parse round trip; the gateway is an
// OpenAI-compatible chat completion endpoint.
package ai

import "errors"

// Gateway failures the API maps to distinct user-facing messages. Everything
// else collapses to a generic retry prompt.
var (
	ErrRateLimited = errors.New("ai gateway: rate limit exceeded")
	ErrNoCredits   = errors.New("ai gateway: credits exhausted")
)

// ErrInvalidAction is returned when the writing assistant is asked for an
// action it does not know.
var ErrInvalidAction = errors.New("ai: invalid action")
