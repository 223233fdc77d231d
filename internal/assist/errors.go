package assist

import "fmt"

type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindNetwork   Kind = "network"
	KindGeneric   Kind = "generic"
)

// Error is a categorized assist failure. Kind drives both the retry policy
// (auth never retries) and the user-facing message.
type Error struct {
	Kind Kind
	Err  error

	retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("assist: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the user-readable rendering of the failure category.
func (e *Error) Message() string {
	switch e.Kind {
	case KindAuth:
		return "The AI assistant rejected the configured API key. Check your credentials."
	case KindRateLimit:
		return "The AI assistant is rate limited right now. Try again in a moment."
	case KindNetwork:
		return "Could not reach the AI assistant. Check your network connection."
	default:
		return "The AI assistant failed to answer. Try again."
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	default:
		return KindGeneric
	}
}
