package routing

import (
	"errors"
	"fmt"
	"strings"
)

// Transport type identifiers used in triggers and inbound events.
// Transport types compare case-insensitively.
const (
	TransportREST          = "rest"
	TransportTopic         = "topic"
	TransportQueue         = "queue"
	TransportFileTransfer  = "file-transfer"
	TransportObjectStorage = "object-storage"
)

// Trigger attribute keys. The set of meaningful keys depends on the
// transport type; a trigger declares only the attributes it cares about.
const (
	// REST attributes
	AttrPath   = "path"
	AttrMethod = "method"

	// Topic attributes
	AttrListenChannel   = "listen-channel"
	AttrResponseChannel = "response-channel"

	// Queue attributes
	AttrQueueName  = "queue-name"
	AttrExchange   = "exchange"
	AttrRoutingKey = "routing-key"

	// File-transfer attributes
	AttrRemoteDirectory = "remote-directory"
	AttrFilePattern     = "file-pattern"

	// Object-storage attributes
	AttrBucket    = "bucket"
	AttrKeyPrefix = "key-prefix"
)

var (
	// ErrEmptyProcessName is returned when a routing has no process name
	ErrEmptyProcessName = errors.New("routing process name cannot be empty")
	// ErrNoTriggers is returned when a routing declares no triggers
	ErrNoTriggers = errors.New("routing must declare at least one trigger")
	// ErrEmptyTransport is returned when a trigger has no transport type
	ErrEmptyTransport = errors.New("trigger transport type cannot be empty")
)

// Trigger is a transport-specific matching rule: a transport type plus a
// sparse attribute bag. Attributes the trigger does not declare are
// wildcards.
type Trigger struct {
	Transport  string
	Attributes map[string]string
}

// Matches reports whether this trigger matches an inbound event with the
// given transport type and attribute values. The transport comparison is
// case-insensitive; declared attribute values must match exactly.
func (t Trigger) Matches(transport string, attrs map[string]string) bool {
	if !strings.EqualFold(t.Transport, transport) {
		return false
	}
	for key, want := range t.Attributes {
		got, ok := attrs[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Attribute returns the declared value for key, or "" when the trigger
// leaves it as a wildcard.
func (t Trigger) Attribute(key string) string {
	return t.Attributes[key]
}

// clone returns a deep copy so table snapshots cannot be mutated through
// the caller's slices and maps.
func (t Trigger) clone() Trigger {
	c := Trigger{Transport: t.Transport}
	if t.Attributes != nil {
		c.Attributes = make(map[string]string, len(t.Attributes))
		for k, v := range t.Attributes {
			c.Attributes[k] = v
		}
	}
	return c
}

// Routing binds a process name to an ordered, non-empty list of triggers.
type Routing struct {
	ProcessName string
	Triggers    []Trigger
}

// Validate checks the routing invariants: a non-empty process name and at
// least one trigger, each with a transport type.
func (r Routing) Validate() error {
	if r.ProcessName == "" {
		return ErrEmptyProcessName
	}
	if len(r.Triggers) == 0 {
		return fmt.Errorf("routing %q: %w", r.ProcessName, ErrNoTriggers)
	}
	for i, t := range r.Triggers {
		if t.Transport == "" {
			return fmt.Errorf("routing %q trigger %d: %w", r.ProcessName, i, ErrEmptyTransport)
		}
	}
	return nil
}

func (r Routing) clone() Routing {
	c := Routing{ProcessName: r.ProcessName}
	if r.Triggers != nil {
		c.Triggers = make([]Trigger, len(r.Triggers))
		for i, t := range r.Triggers {
			c.Triggers[i] = t.clone()
		}
	}
	return c
}
