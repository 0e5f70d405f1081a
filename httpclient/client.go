package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"moviehub/errs"
)

const (
	defaultTimeout = 3 * time.Second
	maxBodyBytes   = 64 << 20
	notFoundCode   = "100404"
)

// envelope mirrors the response body written by every moviehub service.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

type listResult[T any] struct {
	Data []T `json:"data"`
}

type Option func(c *client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *client) {
		if l != nil {
			c.logger = l
		}
	}
}

type client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newClient(service, baseURL string, opts ...Option) client {
	c := client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// do sends the request and decodes the envelope result into out. A 404
// becomes errs.ENOTFOUND; transport failures, timeouts and every other
// non-2xx status become errs.EUNAVAILABLE.
func (c client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream request failed", "service", c.service, "path", path, "error", err)
		return errs.Errorf(errs.EUNAVAILABLE, "%s unavailable", c.service)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errs.Errorf(errs.EUNAVAILABLE, "%s: failed to read response", c.service)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound && isRecordNotFound(env):
		return errs.Errorf(errs.ENOTFOUND, "%s", env.Message)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.WarnContext(ctx, "upstream returned error",
			"service", c.service,
			"path", path,
			"status", resp.StatusCode,
			"code", env.Code,
		)
		return errs.Errorf(errs.EUNAVAILABLE, "%s returned status %d", c.service, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return errs.Errorf(errs.EUNAVAILABLE, "%s: malformed response", c.service)
	}
	return nil
}

// isRecordNotFound tells a missing record apart from a missing route. Only
// the services' own handlers answer with a domain message; routers and
// gateways reply with the bare status text or no envelope at all.
func isRecordNotFound(env envelope) bool {
	return env.Code == notFoundCode &&
		env.Message != "" &&
		env.Message != http.StatusText(http.StatusNotFound)
}
