// Package registry builds the name-keyed handler registry from discovered
// candidates and adapts candidates that do not implement the canonical
// handler contract.
//
// A Registry is an immutable snapshot: it is built once from the candidate
// list and never mutated afterwards, so concurrent lookups need no locking.
// Rebuilding means constructing a new Registry and swapping it in at the
// dispatcher.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

var (
	// ErrEmptyCandidateName is returned when a candidate has no declared name
	ErrEmptyCandidateName = errors.New("candidate name cannot be empty")
	// ErrNilCandidateTarget is returned when a candidate has no target object
	ErrNilCandidateTarget = errors.New("candidate target cannot be nil")
	// ErrDuplicateName is returned in strict mode when two candidates share a name
	ErrDuplicateName = errors.New("duplicate handler name")
)

// Info describes one registered handler for introspection.
type Info struct {
	// Name is the process name the handler is registered under.
	Name string `json:"name"`
	// Adapted reports whether the handler went through the adapter rather
	// than implementing the canonical contract natively.
	Adapted bool `json:"adapted"`
}

// Options controls registry construction.
type Options struct {
	// RejectCollisions turns a name collision into a build error instead of
	// the default last-registration-wins behavior.
	RejectCollisions bool

	// Logger receives collision and adaptation warnings. Nil means no
	// logging.
	Logger *zap.Logger
}

// Registry is the immutable name-to-handler map the dispatcher resolves
// process names against.
type Registry struct {
	handlers map[string]handler.Handler
	adapted  map[string]bool
}

// Build constructs a registry from discovered candidates in registration
// order. A candidate implementing handler.Handler is stored directly;
// anything else is wrapped by the adapter with its method resolution
// computed here, once. On a name collision the most recently registered
// candidate wins and a warning is logged, unless Options.RejectCollisions
// turns the collision into an error.
func Build(candidates []handler.Candidate, opts Options) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		handlers: make(map[string]handler.Handler, len(candidates)),
		adapted:  make(map[string]bool, len(candidates)),
	}

	for i, c := range candidates {
		if c.Name == "" {
			return nil, fmt.Errorf("candidate at index %d: %w", i, ErrEmptyCandidateName)
		}
		if c.Target == nil {
			return nil, fmt.Errorf("candidate %q: %w", c.Name, ErrNilCandidateTarget)
		}

		if _, exists := r.handlers[c.Name]; exists {
			if opts.RejectCollisions {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
			}
			logger.Warn("handler name collision, last registration wins",
				zap.String("process", c.Name))
		}

		if h, ok := c.Target.(handler.Handler); ok {
			r.handlers[c.Name] = h
			r.adapted[c.Name] = false
			continue
		}

		r.handlers[c.Name] = newAdaptedHandler(c.Name, c.Target, logger)
		r.adapted[c.Name] = true
		logger.Debug("candidate adapted to handler contract",
			zap.String("process", c.Name),
			zap.String("targetType", fmt.Sprintf("%T", c.Target)))
	}

	return r, nil
}

// Lookup returns the handler registered under name. A nil registry (the
// pre-build state) never resolves.
func (r *Registry) Lookup(name string) (handler.Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[name]
	return h, ok
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}

// ListAll returns a read-only view of the registered handlers, sorted by
// name for stable introspection output.
func (r *Registry) ListAll() []Info {
	if r == nil {
		return nil
	}
	infos := make([]Info, 0, len(r.handlers))
	for name := range r.handlers {
		infos = append(infos, Info{Name: name, Adapted: r.adapted[name]})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
