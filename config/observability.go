package config

import (
	"strings"
	"time"
)

const defaultObservabilityName = "bhotel"

// ObservabilityConfig groups configuration that controls metrics and staff
// notification fan-out.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Notifications ObservabilityNotificationsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	StatsdPrefix  string `env:"OBSERVABILITY_METRICS_STATSD_PREFIX"  envDefault:"bhotel"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityNotificationsConfig controls outbound staff notifications for
// new bookings and contact messages.
type ObservabilityNotificationsConfig struct {
	Enabled    bool                      `env:"OBSERVABILITY_NOTIFICATIONS_ENABLED"     envDefault:"false"`
	Timeout    time.Duration             `env:"OBSERVABILITY_NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                       `env:"OBSERVABILITY_NOTIFICATIONS_RETRY_LIMIT" envDefault:"2"`
	Slack      SlackNotificationConfig   `                                                               envPrefix:"OBSERVABILITY_NOTIFICATIONS_SLACK_"`
	Webhook    WebhookNotificationConfig `                                                               envPrefix:"OBSERVABILITY_NOTIFICATIONS_WEBHOOK_"`
}

// Sanitize normalises notification configuration values.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}

	c.Slack.sanitize()
	c.Webhook.sanitize()

	if !c.Enabled {
		c.Slack.Enabled = false
		c.Webhook.Enabled = false
		return
	}

	if c.Slack.Enabled && c.Slack.WebhookURL == "" {
		c.Slack.Enabled = false
	}

	if c.Webhook.Enabled && c.Webhook.URL == "" {
		c.Webhook.Enabled = false
	}
}

// SlackNotificationConfig controls Slack webhook fan-out.
type SlackNotificationConfig struct {
	Enabled    bool   `env:"ENABLED" envDefault:"false"`
	WebhookURL string `env:"WEBHOOK_URL"`
	Channel    string `env:"CHANNEL"`
	Username   string `env:"USERNAME" envDefault:"bhotel"`
}

func (c *SlackNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	if c.Username == "" {
		c.Username = defaultObservabilityName
	}
}

// WebhookNotificationConfig controls generic HTTP webhook fan-out, with an
// optional JMESPath body expression applied to the notification envelope.
type WebhookNotificationConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	URL      string `env:"URL"`
	Method   string `env:"METHOD"    envDefault:"POST"`
	BodyExpr string `env:"BODY_EXPR"`
	OkStatus int    `env:"OK_STATUS" envDefault:"200"`
}

func (c *WebhookNotificationConfig) sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.BodyExpr = strings.TrimSpace(c.BodyExpr)
	if c.OkStatus <= 0 {
		c.OkStatus = 200
	}
}
