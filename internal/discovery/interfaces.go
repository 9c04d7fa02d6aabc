package discovery

import (
	"context"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// Discovery defines the interface for handler candidate discovery
// mechanisms. The gateway only consumes the candidate list; how candidates
// are found (compile-time registration table, plugin manifest, explicit
// wiring) is the implementation's concern.
type Discovery interface {
	// Discover returns the candidate handlers to register, in
	// registration order.
	Discover(ctx context.Context) ([]handler.Candidate, error)
}
