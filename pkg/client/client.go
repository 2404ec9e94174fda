// Package client calls the todo procedures over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateInput leaves nil fields unchanged on the server.
type UpdateInput struct {
	ID        int64   `json:"id"`
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Error is a failed call as reported by the server.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsNotFound reports whether err is a NOT_FOUND error from the server.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == "NOT_FOUND"
}

type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/") + "/rpc/",
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var out []Todo
	if err := c.call(ctx, "list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (Todo, error) {
	var out Todo
	err := c.call(ctx, "get", map[string]int64{"id": id}, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, text string) (Todo, error) {
	var out Todo
	err := c.call(ctx, "create", map[string]string{"text": text}, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, in UpdateInput) (Todo, error) {
	var out Todo
	err := c.call(ctx, "update", in, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.call(ctx, "delete", map[string]int64{"id": id}, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("delete %d: server reported failure", id)
	}
	return nil
}

type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error *Error `json:"error"`
}

func (c *Client) call(ctx context.Context, name string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("%s: encode input: %w", name, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+name, &body)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode response (status %d): %w", name, resp.StatusCode, err)
	}
	if env.Error != nil {
		env.Error.Status = resp.StatusCode
		return env.Error
	}
	if env.Result == nil {
		return fmt.Errorf("%s: empty response (status %d)", name, resp.StatusCode)
	}
	if err := json.Unmarshal(env.Result.Data, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", name, err)
	}
	return nil
}
