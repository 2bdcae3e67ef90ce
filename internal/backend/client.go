// Package backend is the typed client for the marketplace REST API. Every
// response is decoded into a model type and validated before it is returned.
package backend

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CookieName is the session cookie the backend issues and expects.
const CookieName = "access_token"

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 15 * time.Second

// maxResponseSize caps decoded response bodies.
const maxResponseSize = 4 << 20

// Client talks to the backend API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL. A nil
// httpClient gets an instrumented client with DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns a view of the client that authenticates with token.
func (c *Client) Session(token string) *Session {
	return &Session{c: c, token: token}
}

// Session issues requests on behalf of one signed-in user.
type Session struct {
	c     *Client
	token string
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the backend's message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err means the session token was rejected.
// The backend answers 422 for malformed tokens.
func IsUnauthorized(err error) bool {
	switch StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	_, err := s.c.do(ctx, s.token, method, path, body, out)
	return err
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token, out)
}

func (c *Client) send(req *http.Request, token string, out any) (*http.Response, error) {
	method, path := req.Method, req.URL.Path
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp, method, path)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return resp, nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return resp, fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response, method, path string) error {
	apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Msg != "":
			apiErr.Message = body.Msg
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

// validator is implemented by every model type.
type validator[T any] interface {
	*T
	Validate() error
}

func validateEach[T any, P validator[T]](items []T) error {
	for i := range items {
		if err := P(&items[i]).Validate(); err != nil {
			return fmt.Errorf("invalid backend payload: %w", err)
		}
	}
	return nil
}

func validateOne[T any, P validator[T]](item *T) error {
	if item == nil {
		return errors.New("invalid backend payload: missing record")
	}
	if err := P(item).Validate(); err != nil {
		return fmt.Errorf("invalid backend payload: %w", err)
	}
	return nil
}
