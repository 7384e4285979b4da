package llm

import (
	"context"
	"time"
)

// DefaultTimeout bounds a completion call when the request does not
// supply its own deadline.
const DefaultTimeout = 30 * time.Second

// Request describes a single chat-completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int

	// Timeout bounds the remote call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Fallback is returned when the model answers with an empty choice
	// list. Callers must not treat it as an error.
	Fallback string
}

// Completer is an interface for a chat-completion backend.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
