package discovery

import (
	"context"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// StaticDiscovery implements Discovery using an explicit candidate list,
// typically assembled from a compile-time registration table.
type StaticDiscovery struct {
	candidates []handler.Candidate
}

// NewStaticDiscovery creates a discovery service over the given candidates.
func NewStaticDiscovery(candidates ...handler.Candidate) *StaticDiscovery {
	return &StaticDiscovery{candidates: candidates}
}

// Register appends a candidate. Call before the gateway starts; discovery
// results are snapshotted at build time.
func (s *StaticDiscovery) Register(name string, target any) *StaticDiscovery {
	s.candidates = append(s.candidates, handler.Candidate{Name: name, Target: target})
	return s
}

// Discover returns a copy of the registered candidate list.
func (s *StaticDiscovery) Discover(ctx context.Context) ([]handler.Candidate, error) {
	out := make([]handler.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}
