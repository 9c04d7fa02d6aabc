package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/internal/audit"
	"github.com/eventgate-io/eventgate-go/internal/dispatch"
	"github.com/eventgate-io/eventgate-go/internal/registry"
	"github.com/eventgate-io/eventgate-go/pkg/handler"
	"github.com/eventgate-io/eventgate-go/pkg/routing"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20 // 1MB

// Gateway is the surface the HTTP API needs from the hosting gateway.
type Gateway interface {
	// Dispatch routes one inbound event through the dispatch engine.
	Dispatch(ctx context.Context, transport string, attrs map[string]string, payload handler.Payload, mode dispatch.Mode) dispatch.Result

	// Handlers lists the registered handlers.
	Handlers() []registry.Info

	// HandlerMetadata returns a handler's metadata by process name.
	HandlerMetadata(name string) (handler.Metadata, bool)

	// Routings returns the routing table in declaration order.
	Routings() []routing.Routing

	// RecentDispatches returns recent audit entries, newest first.
	RecentDispatches(limit int) ([]audit.Entry, error)

	// DispatchCounts returns per-status dispatch totals.
	DispatchCounts() map[string]int64
}

// Handlers holds the HTTP endpoint implementations.
type Handlers struct {
	gateway Gateway
	jwtAuth *JWTAuth
	logger  *zap.Logger
}

// NewHandlers creates the endpoint set.
func NewHandlers(gw Gateway, jwtAuth *JWTAuth, logger *zap.Logger) *Handlers {
	return &Handlers{gateway: gw, jwtAuth: jwtAuth, logger: logger}
}

// HandleLogin issues a JWT for a client ID.
// POST /api/auth/login
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ClientID == "" {
		h.writeError(w, "clientId is required", http.StatusBadRequest)
		return
	}

	token, expiresAt, err := h.jwtAuth.GenerateToken(req.ClientID, req.Admin)
	if err != nil {
		h.writeError(w, "Failed to generate token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, AuthResponse{Token: token, ClientID: req.ClientID, ExpiresAt: expiresAt})
}

// HandleEvents accepts a generic event envelope and dispatches it:
//
//	{"transport": "topic", "attributes": {"listen-channel": "orders"}, "payload": {...}}
//
// POST /api/events?mode=best-effort
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if !gjson.ValidBytes(raw) {
		h.writeError(w, "Request body is not valid JSON", http.StatusBadRequest)
		return
	}

	transport := gjson.GetBytes(raw, "transport").String()
	if transport == "" {
		h.writeError(w, "transport is required", http.StatusBadRequest)
		return
	}

	attrs := make(map[string]string)
	gjson.GetBytes(raw, "attributes").ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = value.String()
		return true
	})

	payload, err := decodePayload(gjson.GetBytes(raw, "payload"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode := dispatch.Strict
	if r.URL.Query().Get("mode") == "best-effort" {
		mode = dispatch.BestEffort
	}

	res := h.gateway.Dispatch(r.Context(), transport, attrs, payload, mode)
	h.writeDispatchResult(w, res)
}

// HandleIngest is the native REST connector: the request path below the
// ingest prefix and the HTTP method become the trigger attributes, the JSON
// body becomes the payload.
// ANY /ingest/{path...}
func (h *Handlers) HandleIngest(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/ingest")
	if path == "" {
		path = "/"
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	payload := handler.Payload{}
	if len(raw) > 0 {
		if !gjson.ValidBytes(raw) {
			h.writeError(w, "Request body is not valid JSON", http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			h.writeError(w, "Request body must be a JSON object", http.StatusBadRequest)
			return
		}
	}

	attrs := map[string]string{
		routing.AttrPath:   path,
		routing.AttrMethod: r.Method,
	}

	res := h.gateway.Dispatch(r.Context(), routing.TransportREST, attrs, payload, dispatch.Strict)
	h.writeDispatchResult(w, res)
}

// HandleListHandlers lists registered handlers with their metadata.
// GET /api/handlers
func (h *Handlers) HandleListHandlers(w http.ResponseWriter, r *http.Request) {
	infos := h.gateway.Handlers()
	resp := HandlersResponse{Handlers: make([]HandlerInfo, 0, len(infos))}
	for _, info := range infos {
		hi := HandlerInfo{Name: info.Name, Adapted: info.Adapted}
		if meta, ok := h.gateway.HandlerMetadata(info.Name); ok {
			hi.Metadata = meta
		}
		resp.Handlers = append(resp.Handlers, hi)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleListRoutes renders the routing table in declaration order.
// GET /api/routes
func (h *Handlers) HandleListRoutes(w http.ResponseWriter, r *http.Request) {
	routings := h.gateway.Routings()
	resp := RoutesResponse{Routes: make([]RouteView, 0, len(routings))}
	for _, rt := range routings {
		view := RouteView{Process: rt.ProcessName}
		for _, trig := range rt.Triggers {
			view.Triggers = append(view.Triggers, TriggerView{
				Transport:  trig.Transport,
				Attributes: trig.Attributes,
			})
		}
		resp.Routes = append(resp.Routes, view)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleListDispatches returns recent dispatch outcomes, newest first.
// GET /api/dispatches?limit=N (admin)
func (h *Handlers) HandleListDispatches(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.writeError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.gateway.RecentDispatches(limit)
	if err != nil {
		h.writeError(w, "Failed to read audit log: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := DispatchesResponse{Dispatches: make([]DispatchRecord, 0, len(entries))}
	for _, e := range entries {
		resp.Dispatches = append(resp.Dispatches, DispatchRecord{
			Offset:    e.Offset,
			Process:   e.Process,
			Transport: e.Transport,
			Status:    e.Status,
			DurationM: e.Duration.Microseconds(),
			Timestamp: e.Timestamp,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleHealth reports liveness and basic counts.
// GET /api/health (no auth)
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Handlers:   len(h.gateway.Handlers()),
		Routes:     len(h.gateway.Routings()),
		Dispatched: h.gateway.DispatchCounts(),
		Timestamp:  time.Now(),
	})
}

// writeDispatchResult translates a dispatch result into HTTP semantics.
func (h *Handlers) writeDispatchResult(w http.ResponseWriter, res dispatch.Result) {
	resp := DispatchResponse{
		Status:    res.Status.String(),
		Process:   res.Process,
		Matched:   res.Matched,
		Output:    res.Output,
		ForwardTo: res.ForwardTo,
	}
	if res.Err != nil {
		resp.Error = &DispatchError{
			Kind:      res.Err.Kind,
			Operation: res.Err.Operation,
			Message:   res.Err.Message,
		}
	}
	h.writeJSON(w, statusToHTTP(res.Status), resp)
}

// statusToHTTP maps dispatch statuses onto HTTP status codes.
func statusToHTTP(status dispatch.Status) int {
	switch status {
	case dispatch.StatusCompleted:
		return http.StatusOK
	case dispatch.StatusUnrouted:
		return http.StatusNotFound
	case dispatch.StatusRejected:
		return http.StatusUnprocessableEntity
	case dispatch.StatusConfigError, dispatch.StatusFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// decodePayload turns the envelope's payload field into a Payload. Absent
// or null payloads become an empty payload; anything not a JSON object is
// rejected.
func decodePayload(result gjson.Result) (handler.Payload, error) {
	if !result.Exists() || result.Type == gjson.Null {
		return handler.Payload{}, nil
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("payload must be a JSON object")
	}
	var payload handler.Payload
	if err := json.Unmarshal([]byte(result.Raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
