package llm

import (
	"context"
	"errors"
)

// Client abstracts chat-completion providers used for field extraction.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single system+user exchange.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a json_object reply.
	JSON bool
}

// ErrEmptyReply is returned when the provider answered but sent no content.
var ErrEmptyReply = errors.New("empty reply")
