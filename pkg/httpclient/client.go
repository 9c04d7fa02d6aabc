// Package httpclient provides a Go client for the EventGate HTTP API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Client provides HTTP client for the EventGate API
type Client struct {
	config     Config
	httpClient *http.Client
	token      string
	baseURL    *url.URL
}

// NewClient creates a new EventGate HTTP client
func NewClient(config Config) (*Client, error) {
	config.SetDefaults()

	if config.ServerURL == "" {
		return nil, fmt.Errorf("ServerURL is required")
	}
	if config.ClientID == "" {
		return nil, fmt.Errorf("ClientID is required")
	}

	baseURL, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ServerURL: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    baseURL,
	}, nil
}

// Authenticate authenticates with the gateway and stores the token
func (c *Client) Authenticate(ctx context.Context) error {
	authReq := map[string]any{
		"clientId": c.config.ClientID,
	}
	if c.config.Admin {
		authReq["admin"] = true
	}

	var authResp AuthResponse
	err := c.doRequest(ctx, "POST", "/api/auth/login", authReq, &authResp, false)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	c.token = authResp.Token
	return nil
}

// SendEvent dispatches a generic event envelope through the gateway
func (c *Client) SendEvent(ctx context.Context, event EventRequest) (*DispatchResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	var resp DispatchResponse
	err := c.doRequest(ctx, "POST", "/api/events", event, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to send event: %w", err)
	}

	return &resp, nil
}

// SendEventBestEffort dispatches an event in best-effort mode: unmatched
// events succeed as no-ops instead of failing
func (c *Client) SendEventBestEffort(ctx context.Context, event EventRequest) (*DispatchResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	queryParams := url.Values{}
	queryParams.Set("mode", "best-effort")

	var resp DispatchResponse
	err := c.doRequestWithQuery(ctx, "POST", "/api/events", queryParams, event, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to send event: %w", err)
	}

	return &resp, nil
}

// Ingest posts a payload to the native REST connector. The path and HTTP
// method become the trigger attributes on the gateway side
func (c *Client) Ingest(ctx context.Context, path string, payload map[string]any) (*DispatchResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	var resp DispatchResponse
	err := c.doRequest(ctx, "POST", "/ingest"+path, payload, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest: %w", err)
	}

	return &resp, nil
}

// ListHandlers returns the registered handlers
func (c *Client) ListHandlers(ctx context.Context) (*HandlersResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	var resp HandlersResponse
	err := c.doRequest(ctx, "GET", "/api/handlers", nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list handlers: %w", err)
	}

	return &resp, nil
}

// ListRoutes returns the routing table in declaration order
func (c *Client) ListRoutes(ctx context.Context) (*RoutesResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	var resp RoutesResponse
	err := c.doRequest(ctx, "GET", "/api/routes", nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return &resp, nil
}

// ListDispatches returns recent dispatch outcomes, newest first (admin only)
func (c *Client) ListDispatches(ctx context.Context, limit int) (*DispatchesResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("client not authenticated - call Authenticate() first")
	}

	queryParams := url.Values{}
	if limit > 0 {
		queryParams.Set("limit", strconv.Itoa(limit))
	}

	var resp DispatchesResponse
	err := c.doRequestWithQuery(ctx, "GET", "/api/dispatches", queryParams, nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatches: %w", err)
	}

	return &resp, nil
}

// GetHealth returns the health status of the gateway
func (c *Client) GetHealth(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(ctx, "GET", "/api/health", nil, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get health status: %w", err)
	}

	return &resp, nil
}

// doRequestWithQuery performs an HTTP request with query parameters and optional authentication
func (c *Client) doRequestWithQuery(ctx context.Context, method, path string, queryParams url.Values, reqBody interface{}, respBody interface{}, requireAuth bool) error {
	u := &url.URL{Path: path}
	if len(queryParams) > 0 {
		u.RawQuery = queryParams.Encode()
	}
	fullURL := c.baseURL.ResolveReference(u)

	var bodyReader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Dispatch endpoints use HTTP status codes to mirror the dispatch
		// outcome; the body is still a full dispatch response.
		if respBody != nil {
			if jsonErr := json.Unmarshal(bodyBytes, respBody); jsonErr == nil {
				if dr, ok := respBody.(*DispatchResponse); ok && dr.Status != "" {
					return nil
				}
			}
		}
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err != nil || errResp.Error == "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(bodyBytes))
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
	}

	if respBody != nil {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// doRequest performs an HTTP request with optional authentication
func (c *Client) doRequest(ctx context.Context, method, path string, reqBody interface{}, respBody interface{}, requireAuth bool) error {
	return c.doRequestWithQuery(ctx, method, path, nil, reqBody, respBody, requireAuth)
}

// IsAuthenticated returns whether the client has a token
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// GetToken returns the current authentication token
func (c *Client) GetToken() string {
	return c.token
}

// SetToken sets the authentication token (useful for testing or token reuse)
func (c *Client) SetToken(token string) {
	c.token = token
}
