// Bridge HTTP implementation of [Host] for hosts exposing a remote API
package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/wavesync/internal/shared"
)

// BridgeHost implements [Host] against a host-side bridge extension that
// exposes project, item, and render operations over local HTTP.
//
// Render requests carry no timeout: the bridge replies only once the host's
// render completes, which can take minutes for long selections.
type BridgeHost struct {
	baseURL    string
	httpClient *http.Client
	renderer   *http.Client
}

// NewBridgeHost creates a BridgeHost for the bridge at baseURL.
func NewBridgeHost(baseURL string, client *http.Client) *BridgeHost {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:9080"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &BridgeHost{
		baseURL:    baseURL,
		httpClient: client,
		renderer:   &http.Client{},
	}
}

// ProjectDirectory returns the open project's directory.
func (b *BridgeHost) ProjectDirectory() (string, error) {
	var payload struct {
		Directory string `json:"directory"`
	}
	if err := b.getJSON("/api/project", &payload); err != nil {
		return "", err
	}
	if payload.Directory == "" {
		return "", shared.ErrNoProject
	}
	return payload.Directory, nil
}

// CreateContainer creates a new track named name on the host timeline.
func (b *BridgeHost) CreateContainer(name string) (ContainerRef, error) {
	var payload struct {
		ContainerID string `json:"container_id"`
	}
	err := b.postJSON("/api/containers", map[string]any{"name": name}, &payload)
	if err != nil {
		return "", err
	}
	return ContainerRef(payload.ContainerID), nil
}

// PlaceMedia places filePath on container at position seconds.
func (b *BridgeHost) PlaceMedia(container ContainerRef, filePath string, position float64) (ItemRef, float64, error) {
	var payload struct {
		ItemID   string  `json:"item_id"`
		Duration float64 `json:"duration"`
	}
	body := map[string]any{
		"container_id": string(container),
		"file_path":    filePath,
		"position":     position,
	}
	if err := b.postJSON("/api/items", body, &payload); err != nil {
		return "", 0, err
	}
	return ItemRef(payload.ItemID), payload.Duration, nil
}

// SelectedItems returns the host's current item selection.
func (b *BridgeHost) SelectedItems() ([]ItemRef, error) {
	var payload struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := b.getJSON("/api/selection", &payload); err != nil {
		return nil, err
	}

	items := make([]ItemRef, 0, len(payload.ItemIDs))
	for _, id := range payload.ItemIDs {
		items = append(items, ItemRef(id))
	}
	return items, nil
}

// SetSelection replaces the host's item selection.
func (b *BridgeHost) SetSelection(items []ItemRef) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, string(item))
	}
	return b.postJSON("/api/selection", map[string]any{"item_ids": ids}, nil)
}

// ItemExists probes whether ref still resolves to a live item.
func (b *BridgeHost) ItemExists(ref ItemRef) bool {
	req, err := http.NewRequest(http.MethodGet, b.baseURL+"/api/items/"+url.PathEscape(string(ref)), nil)
	if err != nil {
		return false
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// RenderSelectionTo renders the current selection into dir with the host's
// last-used render settings. Uses the untimed client; see type comment.
func (b *BridgeHost) RenderSelectionTo(dir string) error {
	data, err := json.Marshal(map[string]any{"directory": dir})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, b.baseURL+"/api/render", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.renderer.Do(req)
	if err != nil {
		return fmt.Errorf("%w: render request failed: %v", shared.ErrHostUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("render returned status %d", resp.StatusCode)
	}
	return nil
}

// BeginUndoGroup opens an undo block on the host.
func (b *BridgeHost) BeginUndoGroup(name string) error {
	return b.postJSON("/api/undo/begin", map[string]any{"name": name}, nil)
}

// EndUndoGroup closes the current undo block on the host.
func (b *BridgeHost) EndUndoGroup() error {
	return b.postJSON("/api/undo/end", nil, nil)
}

func (b *BridgeHost) getJSON(path string, target any) error {
	req, err := http.NewRequest(http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHostUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrHostUnavailable, resp.StatusCode, string(body))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (b *BridgeHost) postJSON(path string, body any, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHostUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrHostUnavailable, resp.StatusCode, string(respBody))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
