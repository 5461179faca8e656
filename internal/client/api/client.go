package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medml/medcli/internal/common"
	"github.com/medml/medcli/internal/logging"
)

// DefaultTimeout bounds a whole call, connection to body.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 1 << 20

// TokenSource yields the current session token, or "" when signed out.
// It is consulted on every call.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Request describes one backend call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   Body
}

// Client talks to the MedML backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger

	newRequestID func() string
}

// New returns a Client for baseURL. A zero timeout means DefaultTimeout;
// a nil tokens source means every call is anonymous.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		tokens:       tokens,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Do runs req and decodes a successful response body into out, which may be
// nil. Any failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.prepare(ctx, req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	requestID := httpReq.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn(ctx, "request failed",
			"request_id", requestID, "method", req.Method, "path", req.Path, "error", err)
		return c.normalize(nil, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request finished",
		"request_id", requestID, "method", req.Method, "path", req.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalize(resp, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Warn(ctx, "response decode failed", "request_id", requestID, "error", err)
		return &Error{Message: FallbackMessage, Status: resp.StatusCode}
	}
	return nil
}

// prepare builds the outbound request: URL, body, content type, auth and
// request id.
func (c *Client) prepare(ctx context.Context, req Request) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid request url: %w", err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set(common.ContentTypeHeaderName, contentType)
	httpReq.Header.Set("Accept", common.ContentTypeJSON)
	httpReq.Header.Set(common.RequestIDHeaderName, c.newRequestID())

	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			httpReq.Header.Set(common.AuthorizationHeaderName, common.TokenScheme+" "+token)
		}
	}
	return httpReq, nil
}

type errorBody struct {
	Error json.RawMessage `json:"error"`
}

// normalize collapses a transport error or a non-2xx response into *Error.
func (c *Client) normalize(resp *http.Response, transportErr error) *Error {
	if resp == nil {
		if transportErr != nil && transportErr.Error() != "" {
			return &Error{Message: transportErr.Error()}
		}
		return &Error{Message: FallbackMessage}
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if msg := errorField(raw); msg != "" {
		return &Error{Message: msg, Status: resp.StatusCode}
	}
	return &Error{Message: FallbackMessage, Status: resp.StatusCode}
}

// errorField extracts a non-empty string "error" field from a JSON object.
func errorField(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Error) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(body.Error, &msg); err != nil {
		return ""
	}
	return msg
}
