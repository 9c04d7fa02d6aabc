package httpapi

import (
	"time"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// Request/Response types for the HTTP API

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthRequest represents a login request.
type AuthRequest struct {
	ClientID string `json:"clientId"`
	Admin    bool   `json:"admin,omitempty"`
}

// AuthResponse represents a login response.
type AuthResponse struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"clientId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DispatchResponse is the HTTP rendering of a dispatch result.
type DispatchResponse struct {
	Status    string          `json:"status"`
	Process   string          `json:"process,omitempty"`
	Matched   bool            `json:"matched"`
	Output    handler.Payload `json:"output,omitempty"`
	ForwardTo string          `json:"forwardTo,omitempty"`
	Error     *DispatchError  `json:"error,omitempty"`
}

// DispatchError carries structured failure detail.
type DispatchError struct {
	Kind      string `json:"kind"`
	Operation string `json:"operation,omitempty"`
	Message   string `json:"message"`
}

// HandlerInfo describes one registered handler.
type HandlerInfo struct {
	Name     string           `json:"name"`
	Adapted  bool             `json:"adapted"`
	Metadata handler.Metadata `json:"metadata,omitempty"`
}

// HandlersResponse lists the registered handlers.
type HandlersResponse struct {
	Handlers []HandlerInfo `json:"handlers"`
}

// TriggerView is the introspection rendering of one trigger.
type TriggerView struct {
	Transport  string            `json:"transport"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RouteView is the introspection rendering of one routing entry.
type RouteView struct {
	Process  string        `json:"process"`
	Triggers []TriggerView `json:"triggers"`
}

// RoutesResponse lists the routing table in declaration order.
type RoutesResponse struct {
	Routes []RouteView `json:"routes"`
}

// DispatchRecord is one audit log entry.
type DispatchRecord struct {
	Offset    int64     `json:"offset"`
	Process   string    `json:"process,omitempty"`
	Transport string    `json:"transport"`
	Status    string    `json:"status"`
	DurationM int64     `json:"durationMicros"`
	Timestamp time.Time `json:"timestamp"`
}

// DispatchesResponse lists recent dispatch outcomes, newest first.
type DispatchesResponse struct {
	Dispatches []DispatchRecord `json:"dispatches"`
}

// HealthResponse reports gateway liveness and basic counts.
type HealthResponse struct {
	Status     string           `json:"status"`
	Handlers   int              `json:"handlers"`
	Routes     int              `json:"routes"`
	Dispatched map[string]int64 `json:"dispatched"`
	Timestamp  time.Time        `json:"timestamp"`
}
