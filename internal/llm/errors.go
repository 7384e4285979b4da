package llm

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors returned by Completer implementations. Clients wrap
// these so callers can classify failures with errors.Is instead of
// matching on message text.
var (
	ErrTimeout       = errors.New("completion timed out")
	ErrInvalidAPIKey = errors.New("invalid api key")
	ErrRateLimited   = errors.New("rate limited")
	ErrNetwork       = errors.New("network error")
)

// Kind classifies a completion failure for user-facing reporting.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidAPIKey
	KindNetwork
	KindTimeout
	KindRateLimited
)

// Classify maps an error to a Kind. Structured sentinels are checked
// first; message substrings are a fallback for errors that arrive from
// outside this package (case-insensitive, mirroring the heuristics the
// app has always used).
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrInvalidAPIKey):
		return KindInvalidAPIKey
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "401"):
		return KindInvalidAPIKey
	case strings.Contains(msg, "network"):
		return KindNetwork
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "429"):
		return KindRateLimited
	default:
		return KindUnknown
	}
}

// UserMessage produces the human-readable string surfaced for a failed
// AI call. The fallthrough includes the underlying error text.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindInvalidAPIKey:
		return "Invalid API key. Please check your OpenAI API key configuration."
	case KindNetwork:
		return "Network error. Please check your internet connection."
	case KindTimeout:
		return "Request timed out. Please try again."
	case KindRateLimited:
		return "Rate limited. Please wait a moment and try again."
	default:
		return "AI request failed: " + err.Error()
	}
}
