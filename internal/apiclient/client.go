// Package apiclient is the single gateway to the remote scholarship API. It
// attaches the session token, encodes JSON or multipart bodies and turns
// every failure into a classified *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxErrorBody bounds how much of a rejection body is read for its message.
const maxErrorBody = 64 << 10

// TokenSource yields the bearer token of the current session, or "".
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client calls the remote API. The zero TokenSource sends no Authorization
// header. A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "apiclient").Logger() }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokenSource returns a copy of c that authenticates with ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes an API request body and query.
type RequestOptions struct {
	// Body is JSON-encoded, or sent as multipart/form-data when Multipart
	// is set. A *Form body is always multipart.
	Body      any
	Multipart bool
	Files     []File
	Query     url.Values
}

// Request performs one API call and returns the raw response body. An empty
// 2xx body is returned as JSON null.
func (c *Client) Request(ctx context.Context, method, path string, opts RequestOptions) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("API unreachable")
		return nil, &Error{Kind: KindNetworkUnavailable, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Kind:    KindRejected,
			Status:  resp.StatusCode,
			Message: extractMessage(body),
			Method:  method,
			Path:    path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Kind: KindNetworkUnavailable, Method: method, Path: path, Err: err}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, &Error{
			Kind:   KindMalformed,
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Err:    errors.New("response body is not JSON"),
		}
	}
	return json.RawMessage(body), nil
}

// Do performs the call and decodes the response into out. A nil out discards
// the body.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	raw, err := c.Request(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindMalformed, Method: method, Path: path, Err: err}
	}
	return nil
}

// Get is shorthand for a GET with optional query.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, RequestOptions{Query: query}, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts RequestOptions) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	form, isForm := opts.Body.(*Form)
	switch {
	case isForm || opts.Multipart || len(opts.Files) > 0:
		if !isForm {
			var err error
			if form, err = FormFromValue(opts.Body); err != nil {
				return nil, err
			}
		}
		if len(opts.Files) > 0 {
			form = &Form{fields: form.fields, Files: append(append([]File(nil), form.Files...), opts.Files...)}
		}
		var err error
		if body, contentType, err = form.encode(); err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
	case opts.Body != nil:
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// extractMessage pulls a human-readable message out of a rejection body. It
// understands {"message": "..."}, {"error": "..."} and
// {"error": {"message": "..."}} and returns "" for anything else.
func extractMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{envelope.Message, envelope.Error} {
		if msg := messageFrom(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
