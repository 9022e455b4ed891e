// Package apiclient is the authenticated client of the daycare REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
)

// ErrUnauthorized is matched (errors.Is) by errors of 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// Error is returned for responses with a status >= 400.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err comes from a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// TokenSource yields the current bearer token; an empty token means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.rest = &rest.Client{HTTPClient: hc}
	}
}

// Client issues one HTTP request per call against a fixed base URL.
type Client struct {
	baseURL        string
	rest           *rest.Client
	tokens         TokenSource
	onUnauthorized func()
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		rest:    &rest.Client{HTTPClient: http.DefaultClient},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind returns a copy of the client sending the tokens of ts and calling onUnauthorized
// once for every 401 response. Either may be nil.
func (c *Client) Bind(ts TokenSource, onUnauthorized func()) *Client {
	cp := *c
	cp.tokens = ts
	cp.onUnauthorized = onUnauthorized
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	return c.do(ctx, rest.Get, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, rest.Post, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, rest.Put, path, nil, in, out)
}

func (c *Client) patch(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, rest.Patch, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, rest.Delete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method rest.Method, path string, query map[string]string, in, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Headers["Authorization"] = "Bearer " + token
		}
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return newError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || strings.TrimSpace(resp.Body) == "" {
		return nil
	}
	return errors.Wrapf(json.Unmarshal([]byte(resp.Body), out), "decoding %s %s response", method, path)
}

// errorBody is the error payload of the API.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func newError(resp *rest.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body errorBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err == nil {
		apiErr.Fields = body.Errors
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
