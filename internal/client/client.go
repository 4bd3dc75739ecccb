// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pimstack/pim-backend/internal/models"
)

// Client talks to the product API and keeps a navigable in-memory view
// of the product list. A successful server read always overwrites both
// the in-memory state and the file cache; the cache is only consulted
// when the server cannot be reached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *FileCache
	token      string

	mu       sync.Mutex
	products []models.Product
	index    int
	offline  bool
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
}

type loginData struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func New(baseURL string, cache *FileCache) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		index:      -1,
	}
}

// Login obtains an access token for mutating calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	var data loginData
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), &data); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = data.Token
	c.mu.Unlock()
	return nil
}

// Refresh loads the product list from the server. On network failure it
// falls back to the file cache and flags the client as offline.
func (c *Client) Refresh(ctx context.Context) error {
	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/api/products", nil, &products)
	if err == nil {
		c.mu.Lock()
		c.products = products
		c.clampIndexLocked()
		c.offline = false
		c.mu.Unlock()

		if c.cache != nil {
			// Cache write failures do not fail the refresh.
			_ = c.cache.Save(&Snapshot{Products: products, SavedAt: time.Now().UTC()})
		}
		return nil
	}

	if _, ok := err.(*APIError); ok {
		// The server answered; its word stands.
		return err
	}

	if c.cache == nil {
		return err
	}

	snapshot, cacheErr := c.cache.Load()
	if cacheErr != nil || snapshot == nil {
		return err
	}

	c.mu.Lock()
	c.products = snapshot.Products
	c.clampIndexLocked()
	c.offline = true
	c.mu.Unlock()
	return nil
}

// Offline reports whether the current view came from the cache.
func (c *Client) Offline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offline
}

func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.products)
}

// Current returns the product under the cursor, or nil when the list is
// empty.
func (c *Client) Current() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Client) First() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) == 0 {
		return nil
	}
	c.index = 0
	return c.currentLocked()
}

func (c *Client) Last() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) == 0 {
		return nil
	}
	c.index = len(c.products) - 1
	return c.currentLocked()
}

// Next advances the cursor, stopping at the end of the list.
func (c *Client) Next() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) == 0 {
		return nil
	}
	if c.index < len(c.products)-1 {
		c.index++
	}
	return c.currentLocked()
}

// Prev moves the cursor back, stopping at the start of the list.
func (c *Client) Prev() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) == 0 {
		return nil
	}
	if c.index > 0 {
		c.index--
	}
	return c.currentLocked()
}

// Select positions the cursor on the product with the given id.
func (c *Client) Select(id uint) *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.index = i
			return c.currentLocked()
		}
	}
	return nil
}

func (c *Client) currentLocked() *models.Product {
	if c.index < 0 || c.index >= len(c.products) {
		return nil
	}
	product := c.products[c.index]
	return &product
}

func (c *Client) clampIndexLocked() {
	switch {
	case len(c.products) == 0:
		c.index = -1
	case c.index < 0:
		c.index = 0
	case c.index >= len(c.products):
		c.index = len(c.products) - 1
	}
}

// APIError is a server-side failure carried through the envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader, out interface{}) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
