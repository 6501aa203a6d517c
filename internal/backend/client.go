// Package backend is the console's single outbound request pipeline to
// the remote titulation API. Every request goes through Client, which
// attaches the session's bearer token when one is present in the request
// context and maps backend failures onto the console error taxonomy.
// The client does not retry, cache or rate-limit; callers interpret
// failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/pkg/config"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

type tokenKey struct{}

// WithToken returns a context carrying the session's bearer token.
// Requests built from a context without a token go out unauthenticated.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the bearer token carried by ctx, or "" when absent.
func Token(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

// CallObserver receives one observation per backend round trip. Outcome
// is "ok", "http_error" or "unreachable".
type CallObserver interface {
	ObserveBackendCall(path, outcome string, duration time.Duration)
}

// Client talks to the titulation backend.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer CallObserver
}

// New constructs a Client from backend configuration.
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Instrument attaches a call observer. Must be called before the client
// serves requests.
func (c *Client) Instrument(obs CallObserver) {
	c.observer = obs
}

// Get issues an authenticated-if-possible GET and decodes JSON into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	return c.do(req, out)
}

// PostJSON issues a POST with a JSON body and decodes JSON into out.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// PostFile uploads a single file as multipart form data under the given
// field name and decodes the JSON response into out.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build multipart body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "copy upload")
	}
	if err := writer.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finish multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

type backendError struct {
	Message string `json:"message"`
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if token := Token(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.observe(req.URL.Path, "unreachable", start)
		c.logger.Warn("backend unreachable", zap.String("path", req.URL.Path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode >= 400 {
		c.observe(req.URL.Path, "http_error", start)
		return c.mapFailure(req, res)
	}
	c.observe(req.URL.Path, "ok", start)

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackendFailed.Code, appErrors.ErrBackendFailed.Status, "respuesta del servidor ilegible")
	}
	return nil
}

func (c *Client) observe(path, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackendCall(path, outcome, time.Since(start))
	}
}

// mapFailure turns a non-2xx backend answer into a console error,
// preserving the server's message when the body carries one.
func (c *Client) mapFailure(req *http.Request, res *http.Response) error {
	var body backendError
	_ = json.NewDecoder(io.LimitReader(res.Body, 4096)).Decode(&body)

	c.logger.Warn("backend error",
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.String("message", body.Message),
	)

	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrSessionExpired, body.Message)
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, body.Message)
	default:
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("el servidor respondió %d", res.StatusCode)
		}
		return appErrors.Clone(appErrors.ErrBackendFailed, msg)
	}
}
