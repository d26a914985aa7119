package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.example.com/x"})
	require.NoError(t, err)
	assert.Equal(t, defaultUsername, client.username)
	assert.Equal(t, defaultRetryLimit, client.retryLimit)
	assert.NotNil(t, client.httpClient)
}

func TestNotifyPostsMessage(t *testing.T) {
	var got webhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{WebhookURL: server.URL, Channel: "#front-desk"})
	require.NoError(t, err)

	err = client.Notify(context.Background(), ports.Notification{
		Kind:  "booking.created",
		Title: "New booking",
		Payload: map[string]any{
			"guest": "Ada",
			"room":  "Sea View Suite",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, defaultUsername, got.Username)
	assert.Equal(t, "#front-desk", got.Channel)
	assert.Contains(t, got.Text, "*New booking*")
	assert.Contains(t, got.Text, "guest: Ada")
	assert.Contains(t, got.Text, "room: Sea View Suite")
}

func TestNotifyRetriesOnFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{WebhookURL: server.URL, RetryLimit: 2})
	require.NoError(t, err)

	err = client.Notify(context.Background(), ports.Notification{Kind: "message.received"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNotifyGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Config{WebhookURL: server.URL, RetryLimit: 1})
	require.NoError(t, err)

	err = client.Notify(context.Background(), ports.Notification{Kind: "booking.created"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking.created")
	assert.Equal(t, int32(2), calls.Load())
}

func TestRenderTextFallsBackToKind(t *testing.T) {
	text := renderText(ports.Notification{Kind: "booking.cancelled"})
	assert.Equal(t, "*booking.cancelled*", text)
}
