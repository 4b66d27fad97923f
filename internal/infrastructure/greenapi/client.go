// Package greenapi is the HTTP client for the Green API WhatsApp gateway.
//
// Every call is addressed as {host}/waInstance{id}/{method}/{token}; the
// instance carries its own host and credentials. Requests are built with a
// placeholder in the token segment and the real token is put back by the
// innermost transport, so traces, logs and errors never see it.
package greenapi

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

	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512

	// redactedToken stands in for the API token outside the wire
	redactedToken = "REDACTED"
)

type tokenKey struct{}

// Client implements whatsapp.Provider over HTTP
type Client struct {
	httpClient     *http.Client
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTracerProvider traces requests with tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// NewClient creates a Green API client. timeout <= 0 uses 15s.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	traceOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "greenapi." + methodFromPath(r.URL.Path)
		}),
	}
	if c.tracerProvider != nil {
		traceOpts = append(traceOpts, otelhttp.WithTracerProvider(c.tracerProvider))
	}
	hc := *c.httpClient
	hc.Transport = otelhttp.NewTransport(tokenTransport{base: base}, traceOpts...)
	c.httpClient = &hc
	return c
}

// tokenTransport swaps the placeholder path segment for the token carried
// by the request context just before the request is sent
type tokenTransport struct {
	base http.RoundTripper
}

func (t tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := req.Context().Value(tokenKey{}).(string)
	if !ok || !strings.HasSuffix(req.URL.Path, "/"+redactedToken) {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.URL.Path = strings.TrimSuffix(out.URL.Path, redactedToken) + token
	out.URL.RawPath = ""
	return t.base.RoundTrip(out)
}

// redact removes the token from text that may have picked it up anyway
func redact(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, redactedToken), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.cause }

type stateResponse struct {
	StateInstance string `json:"stateInstance"`
}

type sendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type sendResponse struct {
	IDMessage string `json:"idMessage"`
}

// GetState returns the raw stateInstance value
func (c *Client) GetState(ctx context.Context, inst *whatsapp.Instance) (string, error) {
	var out stateResponse
	if err := c.do(ctx, inst, http.MethodGet, "getStateInstance", nil, &out); err != nil {
		return "", err
	}
	return out.StateInstance, nil
}

// SendMessage sends a text message and returns the provider message ID
func (c *Client) SendMessage(ctx context.Context, inst *whatsapp.Instance, chatID, text string) (string, error) {
	var out sendResponse
	if err := c.do(ctx, inst, http.MethodPost, "sendMessage", sendRequest{ChatID: chatID, Message: text}, &out); err != nil {
		return "", err
	}
	if out.IDMessage == "" {
		return "", shared.NewDomainError("PROVIDER_UNAVAILABLE", "Provider accepted the message without an id")
	}
	return out.IDMessage, nil
}

// QR fetches the pairing QR code
func (c *Client) QR(ctx context.Context, inst *whatsapp.Instance) (*whatsapp.QRCode, error) {
	var out whatsapp.QRCode
	if err := c.do(ctx, inst, http.MethodGet, "qr", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, inst *whatsapp.Instance, method, apiMethod string, body, out any) error {
	endpoint, err := endpointURL(inst, apiMethod)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", apiMethod, err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx = context.WithValue(ctx, tokenKey{}, inst.APIToken)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", apiMethod, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		err = redact(err, inst.APIToken)
		c.logger.Warn("Green API request failed",
			zap.String("method", apiMethod),
			zap.String("instance_id", inst.InstanceID),
			zap.Error(err),
		)
		return shared.WrapDomainError("PROVIDER_UNAVAILABLE", "Messaging provider is unavailable", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Green API response",
		zap.String("method", apiMethod),
		zap.String("instance_id", inst.InstanceID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if err := checkStatus(resp); err != nil {
		return redact(err, inst.APIToken)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shared.WrapDomainError("PROVIDER_UNAVAILABLE", "Messaging provider returned an unreadable response", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return shared.WrapDomainError("RATE_LIMITED", "Messaging provider rate limit reached", cause)
	case resp.StatusCode >= http.StatusInternalServerError:
		return shared.WrapDomainError("PROVIDER_UNAVAILABLE", "Messaging provider is unavailable", cause)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return shared.WrapDomainError("UNAUTHORIZED", "Messaging provider rejected the instance credentials", cause)
	default:
		return shared.WrapDomainError("PROVIDER_REJECTED", "Messaging provider rejected the request", cause)
	}
}

func endpointURL(inst *whatsapp.Instance, apiMethod string) (string, error) {
	host := strings.TrimRight(inst.Host, "/")
	if host == "" {
		host = whatsapp.DefaultHost
	}
	base, err := url.Parse(host)
	if err != nil {
		return "", shared.WrapDomainError("INVALID_INSTANCE", "Instance host is not a valid URL", err)
	}
	return base.JoinPath("waInstance"+inst.InstanceID, apiMethod, redactedToken).String(), nil
}

// methodFromPath extracts the API method so span names never carry the token
func methodFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if strings.HasPrefix(p, "waInstance") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "request"
}

var _ whatsapp.Provider = (*Client)(nil)
