// Package hyperspell is a minimal client for the Hyperspell memory API.
package hyperspell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.hyperspell.com"

// Client talks to the Hyperspell API over HTTP.
type Client struct {
	baseURL string
	token   string
	asUser  string
	client  *http.Client
}

// New returns a Client for the given API token. An empty baseURL selects
// the production endpoint.
func New(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithAsUser sets the user the client acts on behalf of and returns the
// client so calls can be chained.
func (c *Client) WithAsUser(userID string) *Client {
	c.asUser = userID
	return c
}

// WithHTTPClient replaces the default http.Client. Useful for injecting
// custom timeouts or test doubles.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.asUser != "" {
		req.Header.Set("X-As-User", c.asUser)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hyperspell request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("hyperspell error %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Search queries the user's connected sources.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	var result struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/search", p, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// AddMemory stores text as a memory. When p.ResourceID is set the remote
// record is updated in place instead of creating a duplicate. Returns the
// resource id of the stored memory.
func (c *Client) AddMemory(ctx context.Context, p AddMemoryParams) (string, error) {
	var result struct {
		ResourceID string `json:"resource_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/memories", p, &result); err != nil {
		return "", err
	}
	return result.ResourceID, nil
}

// ListMemories returns one page of the memory listing in the store's
// native order. An empty cursor starts from the beginning.
func (c *Client) ListMemories(ctx context.Context, cursor string, limit int) (*MemoryPage, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var page MemoryPage
	if err := c.do(ctx, http.MethodGet, "/memories?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDocument fetches the full content of a memory by resource id and source.
func (c *Client) GetDocument(ctx context.Context, resourceID string, source Source) (*Document, error) {
	path := "/documents/" + url.PathEscape(string(source)) + "/" + url.PathEscape(resourceID)
	var doc Document
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListConnections returns the user's connected knowledge sources.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	var result struct {
		Connections []Connection `json:"connections"`
	}
	if err := c.do(ctx, http.MethodGet, "/connections", nil, &result); err != nil {
		return nil, err
	}
	return result.Connections, nil
}
