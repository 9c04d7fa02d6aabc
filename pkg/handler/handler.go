package handler

import "context"

// Payload is the opaque structured body of an inbound event. Connectors
// decode their native message format into a Payload before dispatching;
// handlers return a Payload as their result.
type Payload map[string]any

// Metadata is the structured self-description a handler exposes for
// introspection (health/status endpoints, CLI listings).
type Metadata map[string]any

// Handler is the canonical contract for a unit of business logic invoked by
// the dispatcher.
type Handler interface {
	// Handle processes the payload and returns the handler's result.
	// Errors are reported to the dispatcher, which converts them into a
	// structured dispatch result; they never reach the connector raw.
	Handle(ctx context.Context, payload Payload) (Payload, error)

	// ValidateInput reports whether the payload is acceptable. When it
	// returns false the dispatcher rejects the event without invoking
	// Handle.
	ValidateInput(payload Payload) bool

	// Metadata returns the handler's structured self-description.
	Metadata() Metadata
}

// Candidate pairs a declared process name with a discovered object offered
// for registration. The object may or may not implement Handler; the
// registry adapts it when it does not.
type Candidate struct {
	// Name is the process name the object is registered under. Routing
	// entries reference handlers by this name.
	Name string

	// Target is the discovered object.
	Target any
}

// Func is a convenience Handler built from closures. Zero-value callbacks
// fall back to safe defaults: accept any non-nil payload, empty metadata.
type Func struct {
	Name       string
	HandleFunc func(ctx context.Context, payload Payload) (Payload, error)
	Validate   func(payload Payload) bool
	Meta       Metadata
}

// Handle invokes the HandleFunc callback.
func (f Func) Handle(ctx context.Context, payload Payload) (Payload, error) {
	if f.HandleFunc == nil {
		return Payload{}, nil
	}
	return f.HandleFunc(ctx, payload)
}

// ValidateInput invokes the Validate callback, defaulting to accepting any
// non-nil payload.
func (f Func) ValidateInput(payload Payload) bool {
	if f.Validate == nil {
		return payload != nil
	}
	return f.Validate(payload)
}

// Metadata returns the configured metadata, always including the name.
func (f Func) Metadata() Metadata {
	meta := Metadata{"name": f.Name}
	for k, v := range f.Meta {
		meta[k] = v
	}
	return meta
}
