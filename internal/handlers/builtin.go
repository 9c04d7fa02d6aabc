// Package handlers provides the built-in handlers shipped with the
// gateway daemon. Embedders supply their own candidates instead.
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// Manifest returns the built-in handler candidates.
func Manifest() []handler.Candidate {
	return []handler.Candidate{
		{Name: "echo", Target: echoHandler()},
		{Name: "ping", Target: pingHandler()},
		{Name: "uppercase", Target: &UppercaseService{}},
	}
}

func echoHandler() handler.Func {
	return handler.Func{
		Name: "echo",
		HandleFunc: func(ctx context.Context, p handler.Payload) (handler.Payload, error) {
			return p, nil
		},
		Meta: handler.Metadata{
			"name":        "echo",
			"description": "returns the payload unchanged",
		},
	}
}

func pingHandler() handler.Func {
	return handler.Func{
		Name: "ping",
		HandleFunc: func(ctx context.Context, p handler.Payload) (handler.Payload, error) {
			return handler.Payload{"pong": true, "time": time.Now().Format(time.RFC3339)}, nil
		},
		Meta: handler.Metadata{
			"name":        "ping",
			"description": "liveness probe handler",
		},
	}
}

// UppercaseService is a plain struct with no knowledge of the handler
// interface. It goes through the adapter, which finds Handle by name.
type UppercaseService struct{}

// Handle uppercases the "text" field of the payload.
func (s *UppercaseService) Handle(ctx context.Context, p handler.Payload) (handler.Payload, error) {
	text, ok := p["text"].(string)
	if !ok {
		return nil, fmt.Errorf("payload field %q must be a string", "text")
	}
	return handler.Payload{"text": strings.ToUpper(text)}, nil
}

// ValidateInput requires a string "text" field.
func (s *UppercaseService) ValidateInput(p handler.Payload) bool {
	_, ok := p["text"].(string)
	return ok
}
