// Package slack delivers staff notifications to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

const (
	defaultUsername   = "bhotel"
	defaultRetryLimit = 2
	retryBackoff      = 200 * time.Millisecond
)

// Config describes the target webhook.
type Config struct {
	WebhookURL string
	Username   string
	Channel    string
	RetryLimit int
	HTTPClient *http.Client
}

// Client posts notifications to a Slack incoming webhook. Transient failures
// are retried with a linear backoff.
type Client struct {
	webhookURL string
	username   string
	channel    string
	retryLimit int
	httpClient *http.Client
}

var _ ports.Notifier = (*Client)(nil)

// NewClient validates the config and returns a webhook client.
func NewClient(cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.WebhookURL)
	if url == "" {
		return nil, fmt.Errorf("slack: webhook URL is required")
	}

	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = defaultUsername
	}

	retryLimit := cfg.RetryLimit
	if retryLimit < 0 {
		retryLimit = 0
	}
	if cfg.RetryLimit == 0 {
		retryLimit = defaultRetryLimit
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		webhookURL: url,
		username:   username,
		channel:    strings.TrimSpace(cfg.Channel),
		retryLimit: retryLimit,
		httpClient: httpClient,
	}, nil
}

type webhookMessage struct {
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
	Text     string `json:"text"`
}

// Notify implements ports.Notifier.
func (c *Client) Notify(ctx context.Context, n ports.Notification) error {
	body, err := json.Marshal(webhookMessage{
		Username: c.username,
		Channel:  c.channel,
		Text:     renderText(n),
	})
	if err != nil {
		return fmt.Errorf("slack: encode message: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("slack: deliver %q: %w", n.Kind, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func renderText(n ports.Notification) string {
	var b strings.Builder
	if n.Title != "" {
		b.WriteString("*" + n.Title + "*")
	} else {
		b.WriteString("*" + n.Kind + "*")
	}

	keys := make([]string, 0, len(n.Payload))
	for k := range n.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(fmt.Sprintf("\n• %s: %v", k, n.Payload[k]))
	}
	return b.String()
}
