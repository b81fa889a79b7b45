// Package api talks to a running medmod server: the user endpoints of the
// HTTP API and the gRPC health service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx answer from the HTTP API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// User mirrors the server's serialized user.
type User struct {
	ID     string `json:"id"`
	Google struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"google"`
	Created    time.Time `json:"created"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Privileged bool      `json:"privileged"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateUser registers the user described by an identity token.
func (c *Client) CreateUser(ctx context.Context, idToken string) (*User, error) {
	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return nil, err
	}
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/users", bytes.NewReader(body), http.StatusCreated, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, http.StatusOK, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user and returns the removed record.
func (c *Client) DeleteUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, http.StatusOK, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
