// Remote HTTP implementation of [Client] for the middleware's query API
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/wavesync/internal/shared"
	"golang.org/x/time/rate"
)

// RemoteClient implements [Client] over the middleware's JSON HTTP API.
//
// Descendant queries are rate limited to avoid starving the authoring
// application's UI thread, which services the query API.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	connected  bool
}

// NewRemoteClient creates a RemoteClient. A rateLimit <= 0 disables throttling.
func NewRemoteClient(client *http.Client, rateLimit float64) *RemoteClient {
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), 1)
	}

	return &RemoteClient{
		httpClient: client,
		limiter:    limiter,
	}
}

// selectionResponse is the wire format of GET /api/selection.
type selectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Objects []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Path string `json:"path"`
	} `json:"objects"`
}

// descendantsResponse is the wire format of GET /api/objects/{id}/descendants.
type descendantsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Objects []struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		Type             string `json:"type"`
		Path             string `json:"path"`
		OriginalFilePath string `json:"original_file_path"`
	} `json:"objects"`
}

// Connect verifies the middleware is reachable at host:port and establishes
// the session used by subsequent queries.
func (c *RemoteClient) Connect(ctx context.Context, host string, port int) error {
	c.baseURL = fmt.Sprintf("http://%s:%d", host, port)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/session", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: session check returned status %d", shared.ErrConnection, resp.StatusCode)
	}

	c.connected = true
	return nil
}

// Disconnect tears down the session.
func (c *RemoteClient) Disconnect() error {
	c.connected = false
	return nil
}

// Connected reports whether Connect has succeeded for this client.
func (c *RemoteClient) Connected() bool {
	return c.connected
}

// QuerySelection retrieves the middleware's current selection.
func (c *RemoteClient) QuerySelection(ctx context.Context) ([]SelectedObject, error) {
	if !c.connected {
		return nil, shared.ErrNotConnected
	}

	var payload selectionResponse
	if err := c.getJSON(ctx, "/api/selection", &payload); err != nil {
		return nil, err
	}

	if payload.Status == "error" {
		return nil, fmt.Errorf("%w: %s", shared.ErrQuery, payload.Message)
	}

	objects := make([]SelectedObject, 0, len(payload.Objects))
	for _, obj := range payload.Objects {
		objects = append(objects, SelectedObject{ID: obj.ID, Name: obj.Name, Path: obj.Path})
	}

	return objects, nil
}

// QueryDescendants retrieves the descendant set of the object with objectID.
func (c *RemoteClient) QueryDescendants(ctx context.Context, objectID string) ([]Object, error) {
	if !c.connected {
		return nil, shared.ErrNotConnected
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrQuery, err)
		}
	}

	path := fmt.Sprintf("/api/objects/%s/descendants", url.PathEscape(objectID))

	var payload descendantsResponse
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	if payload.Status == "error" {
		return nil, fmt.Errorf("%w: %s", shared.ErrQuery, payload.Message)
	}

	objects := make([]Object, 0, len(payload.Objects))
	for _, obj := range payload.Objects {
		objects = append(objects, Object{
			ID:               obj.ID,
			Name:             obj.Name,
			Type:             obj.Type,
			Path:             obj.Path,
			OriginalFilePath: obj.OriginalFilePath,
		})
	}

	return objects, nil
}

// getJSON performs a GET request against the session base URL and decodes the
// JSON response body into target.
func (c *RemoteClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrQuery, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrQuery, err)
	}

	return nil
}
