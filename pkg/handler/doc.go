// Package handler defines the canonical contract between the EventGate
// dispatch engine and the business handlers it invokes.
//
// The package contains three core abstractions:
//   - Payload: the opaque structured body of an inbound event
//   - Handler: the interface every registered handler is invoked through
//   - Candidate: a discovered (name, object) pair offered for registration
//
// Handlers that implement Handler directly are registered as-is. Objects
// that do not are wrapped by the registry's adapter, which resolves an
// invocable method set once at registration time. Either way the dispatcher
// only ever sees the Handler interface.
//
// Handlers are contractually stateless or internally thread-safe: the
// dispatcher invokes them concurrently from multiple connector goroutines
// and performs no locking on their behalf.
//
// Example usage:
//
//	type EchoHandler struct{}
//
//	func (EchoHandler) Handle(ctx context.Context, p handler.Payload) (handler.Payload, error) {
//		return p, nil
//	}
//
//	func (EchoHandler) ValidateInput(p handler.Payload) bool { return p != nil }
//
//	func (EchoHandler) Metadata() handler.Metadata {
//		return handler.Metadata{"name": "echo", "version": "1.0"}
//	}
package handler
