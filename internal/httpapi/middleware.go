package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ContextKey type for context keys to avoid collisions.
type ContextKey string

const (
	// ClientIDKey is the context key for the authenticated client ID
	ClientIDKey ContextKey = "client_id"
	// AdminKey is the context key for admin status
	AdminKey ContextKey = "admin"
)

// Middleware provides HTTP middleware functions.
type Middleware struct {
	jwtAuth *JWTAuth
	logger  *zap.Logger
	noAuth  bool // Development mode: bypass authentication
}

// NewMiddleware creates a new middleware instance.
func NewMiddleware(jwtAuth *JWTAuth, logger *zap.Logger, noAuth bool) *Middleware {
	return &Middleware{jwtAuth: jwtAuth, logger: logger, noAuth: noAuth}
}

// AuthRequired requires a valid JWT on the request.
func (m *Middleware) AuthRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.noAuth {
			ctx := context.WithValue(r.Context(), ClientIDKey, "dev-client")
			ctx = context.WithValue(ctx, AdminKey, false)
			next(w, r.WithContext(ctx))
			return
		}

		claims, err := m.jwtAuth.ValidateToken(r.Header.Get("Authorization"))
		if err != nil {
			m.writeError(w, "Invalid or missing token: "+err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, claims.ClientID)
		ctx = context.WithValue(ctx, AdminKey, claims.Admin)
		next(w, r.WithContext(ctx))
	}
}

// AdminRequired requires admin privileges. Admin endpoints are never
// bypassed, even in no-auth mode.
func (m *Middleware) AdminRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.jwtAuth.ValidateToken(r.Header.Get("Authorization"))
		if err != nil {
			m.writeError(w, "Invalid or missing token for admin access: "+err.Error(), http.StatusUnauthorized)
			return
		}
		if !claims.Admin {
			m.writeError(w, "Admin privileges required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, claims.ClientID)
		ctx = context.WithValue(ctx, AdminKey, true)
		next(w, r.WithContext(ctx))
	}
}

// Logging logs each request with method, path, and elapsed time.
func (m *Middleware) Logging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		m.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	}
}

// CORS adds CORS headers for browser clients.
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (m *Middleware) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
