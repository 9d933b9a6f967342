// Package api implements the remote bloglist service over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
	"github.com/xRiceFarmer/bloglist-client/internal/errors"
	"github.com/xRiceFarmer/bloglist-client/internal/platform/retry"
)

const (
	requestTimeout = 10 * time.Second

	listMaxAttempts    = 3
	listInitialBackoff = 250 * time.Millisecond
)

// Client talks to the bloglist REST API and implements domain.BlogService.
// The bearer token is whatever was last passed to SetToken; an empty token
// means requests go out unauthenticated.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetToken sets the bearer token attached to all subsequent requests.
// Passing "" stops sending credentials entirely.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticate exchanges credentials for a session token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	payload := map[string]string{"username": username, "password": password}

	var session domain.Session
	if err := c.do(ctx, http.MethodPost, "/api/login", payload, &session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// List fetches the full blog collection. The read is idempotent, so
// transient transport failures are retried with backoff before giving up.
func (c *Client) List(ctx context.Context) ([]domain.Blog, error) {
	policy := retry.Policy{
		MaxAttempts:    listMaxAttempts,
		InitialBackoff: listInitialBackoff,
	}

	return retry.Do(ctx, policy, classifyForRetry, func() ([]domain.Blog, error) {
		var blogs []domain.Blog
		if err := c.do(ctx, http.MethodGet, "/api/blogs", nil, &blogs); err != nil {
			return nil, err
		}
		return blogs, nil
	})
}

func (c *Client) Create(ctx context.Context, blog domain.NewBlog) (domain.Blog, error) {
	var created domain.Blog
	if err := c.do(ctx, http.MethodPost, "/api/blogs", blog, &created); err != nil {
		return domain.Blog{}, err
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, id string, blog domain.Blog) (domain.Blog, error) {
	var updated domain.Blog
	if err := c.do(ctx, http.MethodPut, "/api/blogs/"+id, blog, &updated); err != nil {
		return domain.Blog{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blogs/"+id, nil, nil)
}

func (c *Client) AddComment(ctx context.Context, id, text string) (domain.Blog, error) {
	payload := map[string]string{"comment": text}

	var updated domain.Blog
	if err := c.do(ctx, http.MethodPost, "/api/blogs/"+id+"/comments", payload, &updated); err != nil {
		return domain.Blog{}, err
	}
	return updated, nil
}

// do performs one request/response cycle: marshal body, attach token,
// map non-2xx statuses to structured errors, decode into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.NetworkError("failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NetworkError("failed to reach bloglist service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.FromStatus(resp.StatusCode, readErrorMessage(resp)).
			WithContext("method", method).
			WithContext("path", path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NetworkError("failed to decode response", err)
	}
	return nil
}

// readErrorMessage extracts the server's {"error": "..."} detail, falling
// back to the status text when the body is empty or unparseable.
func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(data) > 0 {
		var parsed struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
			return parsed.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}

// classifyForRetry only retries transport-level failures. Anything the
// server answered (auth, validation, not found) is final.
func classifyForRetry(err error) retry.Action {
	if errors.IsType(err, errors.TypeNetwork) {
		return retry.Retry
	}
	return retry.Stop
}
