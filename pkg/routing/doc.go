// Package routing provides the declarative routing table that binds inbound
// transport events to process names.
//
// The package defines the core routing abstractions:
//   - Trigger: a transport-specific matching rule (transport type + sparse
//     attribute bag)
//   - Routing: a configuration entry binding a process name to one or more
//     triggers
//   - Table: an immutable, declaration-ordered list of routings with
//     first-match-wins lookup
//
// Matching semantics:
//   - Transport types compare case-insensitively ("REST" matches "rest")
//   - Attribute values compare exactly and case-sensitively
//   - An attribute a trigger does not declare is a wildcard: any event
//     value (or no value at all) matches
//   - Routings are scanned in declaration order and the first routing
//     containing any matching trigger wins; later routings that would also
//     match are shadowed, which is a deliberate policy rather than an
//     ambiguity error
//
// A Table is built once from external configuration and is immutable
// afterwards. Rebuilding routing state means constructing a brand-new Table
// and swapping it in atomically; tables are never mutated in place, so
// concurrent lookups need no locking.
//
// Example usage:
//
//	table, err := routing.NewTable([]routing.Routing{{
//		ProcessName: "order-intake",
//		Triggers: []routing.Trigger{{
//			Transport: routing.TransportREST,
//			Attributes: map[string]string{
//				routing.AttrPath:   "/orders",
//				routing.AttrMethod: "POST",
//			},
//		}},
//	}})
//	if err != nil {
//		return err
//	}
//
//	process, trigger, ok := table.Match("rest", map[string]string{
//		routing.AttrPath:   "/orders",
//		routing.AttrMethod: "POST",
//	})
package routing
