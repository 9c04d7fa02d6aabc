package httpclient

import "time"

// Config holds client configuration
type Config struct {
	// ServerURL is the base URL of the EventGate HTTP API (e.g., "http://localhost:8080")
	ServerURL string

	// ClientID is the identifier for this client
	ClientID string

	// Admin requests an admin-scoped token at login
	Admin bool

	// Timeout for HTTP requests
	Timeout time.Duration

	// MaxRetries for failed requests
	MaxRetries int
}

// SetDefaults sets reasonable default values for the config
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

// AuthResponse represents the response from authentication
type AuthResponse struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"clientId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventRequest is the generic event envelope accepted by the gateway
type EventRequest struct {
	Transport  string            `json:"transport"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Payload    map[string]any    `json:"payload,omitempty"`
}

// DispatchResponse represents the outcome of dispatching one event
type DispatchResponse struct {
	Status    string         `json:"status"`
	Process   string         `json:"process,omitempty"`
	Matched   bool           `json:"matched"`
	Output    map[string]any `json:"output,omitempty"`
	ForwardTo string         `json:"forwardTo,omitempty"`
	Error     *DispatchError `json:"error,omitempty"`
}

// DispatchError carries structured failure detail
type DispatchError struct {
	Kind      string `json:"kind"`
	Operation string `json:"operation,omitempty"`
	Message   string `json:"message"`
}

// HandlerInfo describes one registered handler
type HandlerInfo struct {
	Name     string         `json:"name"`
	Adapted  bool           `json:"adapted"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HandlersResponse lists the registered handlers
type HandlersResponse struct {
	Handlers []HandlerInfo `json:"handlers"`
}

// TriggerView describes one trigger of a routing entry
type TriggerView struct {
	Transport  string            `json:"transport"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RouteView describes one routing entry
type RouteView struct {
	Process  string        `json:"process"`
	Triggers []TriggerView `json:"triggers"`
}

// RoutesResponse lists the routing table in declaration order
type RoutesResponse struct {
	Routes []RouteView `json:"routes"`
}

// DispatchRecord is one audit log entry
type DispatchRecord struct {
	Offset    int64     `json:"offset"`
	Process   string    `json:"process,omitempty"`
	Transport string    `json:"transport"`
	Status    string    `json:"status"`
	DurationM int64     `json:"durationMicros"`
	Timestamp time.Time `json:"timestamp"`
}

// DispatchesResponse lists recent dispatch outcomes, newest first
type DispatchesResponse struct {
	Dispatches []DispatchRecord `json:"dispatches"`
}

// HealthResponse represents the gateway health check response
type HealthResponse struct {
	Status     string           `json:"status"`
	Handlers   int              `json:"handlers"`
	Routes     int              `json:"routes"`
	Dispatched map[string]int64 `json:"dispatched"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
