package routing

import "fmt"

// Table is an immutable, declaration-ordered routing table. It holds the
// routings exactly as supplied: no reordering, no deduplication. Ordering
// is semantically significant because lookup is first-match-wins.
//
// A nil *Table behaves like an empty table: Match never succeeds. This is
// the pre-build state a dispatcher may observe before the first snapshot
// is swapped in.
type Table struct {
	routings []Routing
}

// NewTable builds a table from the supplied routings, validating each
// entry. The input is deep-copied so later mutation of the caller's slices
// cannot affect the table.
func NewTable(routings []Routing) (*Table, error) {
	copied := make([]Routing, len(routings))
	for i, r := range routings {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid routing at index %d: %w", i, err)
		}
		copied[i] = r.clone()
	}
	return &Table{routings: copied}, nil
}

// Len returns the number of routings in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.routings)
}

// Routings returns a copy of the routing list in declaration order.
func (t *Table) Routings() []Routing {
	if t == nil {
		return nil
	}
	out := make([]Routing, len(t.routings))
	for i, r := range t.routings {
		out[i] = r.clone()
	}
	return out
}

// Match scans routings in declaration order and returns the process name
// of the first routing containing a trigger that matches the event's
// transport type and attributes, along with the matched trigger. Later
// routings that would also match are shadowed. ok is false when nothing
// matches.
func (t *Table) Match(transport string, attrs map[string]string) (process string, matched Trigger, ok bool) {
	if t == nil {
		return "", Trigger{}, false
	}
	for _, r := range t.routings {
		for _, trig := range r.Triggers {
			if trig.Matches(transport, attrs) {
				return r.ProcessName, trig.clone(), true
			}
		}
	}
	return "", Trigger{}, false
}
