// Package webhook delivers staff notifications to a configurable HTTP
// endpoint, with an optional JMESPath expression that reshapes the payload
// before delivery.
package webhook

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

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// Evaluator abstracts JMESPath operations for testability.
type Evaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type libEvaluator struct{}

func (libEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (libEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Config describes the target endpoint.
type Config struct {
	URL     string
	Method  string
	Headers map[string]string
	// BodyExpr is an optional JMESPath expression applied to the
	// notification envelope. When empty the envelope is sent as-is.
	BodyExpr string
	OkStatus int
	// Evaluator overrides the JMESPath implementation, mainly for tests.
	Evaluator  Evaluator
	HTTPClient *http.Client
}

// Client posts notifications as JSON to an HTTP endpoint.
type Client struct {
	url      string
	method   string
	headers  map[string]string
	bodyExpr string
	okStatus int

	evaluator  Evaluator
	httpClient *http.Client
}

var _ ports.Notifier = (*Client)(nil)

// NewClient validates the config and returns a webhook client. The body
// expression is compiled up front so misconfiguration fails at startup.
func NewClient(cfg Config) (*Client, error) {
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return nil, errors.New("webhook: URL is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("webhook: invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("webhook: invalid URL scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, errors.New("webhook: URL missing host")
	}

	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = libEvaluator{}
	}
	if err := evaluator.Validate(cfg.BodyExpr); err != nil {
		return nil, fmt.Errorf("webhook: invalid body expression: %w", err)
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodPost
	}

	okStatus := cfg.OkStatus
	if okStatus == 0 {
		okStatus = http.StatusOK
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		if key := strings.TrimSpace(k); key != "" {
			headers[key] = v
		}
	}

	return &Client{
		url:        target,
		method:     method,
		headers:    headers,
		bodyExpr:   strings.TrimSpace(cfg.BodyExpr),
		okStatus:   okStatus,
		evaluator:  evaluator,
		httpClient: httpClient,
	}, nil
}

type envelope struct {
	Kind    string         `json:"kind"`
	Title   string         `json:"title"`
	Payload map[string]any `json:"payload"`
}

// Notify implements ports.Notifier.
func (c *Client) Notify(ctx context.Context, n ports.Notification) error {
	body, err := c.deriveBody(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver %q: %w", n.Kind, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != c.okStatus {
		return fmt.Errorf("webhook: deliver %q: unexpected status %d", n.Kind, resp.StatusCode)
	}
	return nil
}

func (c *Client) deriveBody(n ports.Notification) ([]byte, error) {
	env := envelope{Kind: n.Kind, Title: n.Title, Payload: n.Payload}
	if c.bodyExpr == "" {
		b, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("webhook: encode envelope: %w", err)
		}
		return b, nil
	}

	// Round-trip through JSON so the evaluator sees plain maps.
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("webhook: encode envelope: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("webhook: decode envelope: %w", err)
	}

	res, err := c.evaluator.Evaluate(c.bodyExpr, data)
	if err != nil {
		return nil, fmt.Errorf("webhook: evaluate body expression: %w", err)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("webhook: encode derived body: %w", err)
	}
	return b, nil
}
