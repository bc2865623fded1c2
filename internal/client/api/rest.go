package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// DefaultTimeout bounds every request unless overridden via WithTimeout or
// a custom http.Client.
const DefaultTimeout = 30 * time.Second

// RestClient implements Client over plain HTTP/JSON.
type RestClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewRestClient builds a client for the API at baseURL. tokens may be nil
// for a purely anonymous client.
func NewRestClient(baseURL string, tokens TokenSource, opts ...Option) (*RestClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	c := &RestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *RestClient) ListUsers(ctx context.Context, limit, skip int) (*UserPage, error) {
	var page UserPage
	path := fmt.Sprintf("/users?limit=%d&skip=%d", limit, skip)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *RestClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, false, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *RestClient) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = 0 // the server assigns its own id
	var created models.User
	if err := c.do(ctx, http.MethodPost, "/users/add", user, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RestClient) UpdateUser(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), p, true, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *RestClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, true, nil)
}

func (c *RestClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RestClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// do performs one round trip: encode body, inject the bearer token when
// auth is set, normalize failures into *APIError, decode into out.
func (c *RestClient) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokens != nil {
		if token := c.tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeNetworkError).Inc()
		return newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeNetworkError).Inc()
		return newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestsTotal.WithLabelValues(method, outcomeHTTPError).Inc()
		return newStatusError(resp.StatusCode, errorMessage(raw))
	}
	requestsTotal.WithLabelValues(method, outcomeOK).Inc()

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the server's message/error field from an error body.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
