package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startUDPReceiver(t *testing.T) (string, <-chan string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	lines := make(chan string, 16)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, _, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			lines <- string(buf[:n])
		}
	}()
	return conn.LocalAddr().String(), lines
}

func receive(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for metric")
		return ""
	}
}

func TestClientDisabled(t *testing.T) {
	client, err := NewClient(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// Should not panic without a connection.
	client.Count("bookings.created", 1, nil)
	client.Gauge("sessions.active", 3, nil)
	client.Timing("reaper.duration", time.Second, nil)
	require.NoError(t, client.Close())
}

func TestClientNilSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	client.Count("x", 1, nil)
	client.Gauge("x", 1, nil)
	client.Timing("x", time.Second, nil)
	require.NoError(t, client.Close())
}

func TestClientCount(t *testing.T) {
	addr, lines := startUDPReceiver(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "bhotel"})
	require.NoError(t, err)
	defer client.Close()

	client.Count("bookings.created", 2, nil)
	assert.Equal(t, "bhotel.bookings.created:2|c", receive(t, lines))
}

func TestClientGaugeAndTiming(t *testing.T) {
	addr, lines := startUDPReceiver(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Gauge("sessions.active", 4.5, nil)
	assert.Equal(t, "sessions.active:4.5|g", receive(t, lines))

	client.Timing("reaper.duration", 1500*time.Millisecond, nil)
	assert.Equal(t, "reaper.duration:1500|ms", receive(t, lines))
}

func TestClientTags(t *testing.T) {
	addr, lines := startUDPReceiver(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()

	client.Count("bookings.expired", 1, map[string]string{"result": "success"})

	line := receive(t, lines)
	assert.True(t, strings.HasPrefix(line, "bookings.expired:1|c|#"), line)
	assert.Contains(t, line, "env:test")
	assert.Contains(t, line, "result:success")
}

func TestClientTagsOverrideGlobal(t *testing.T) {
	addr, lines := startUDPReceiver(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"result": "noop"},
	})
	require.NoError(t, err)
	defer client.Close()

	client.Count("bookings.expired", 1, map[string]string{"result": "error"})
	assert.Equal(t, "bookings.expired:1|c|#result:error", receive(t, lines))
}

func TestMetricNameSanitized(t *testing.T) {
	client := &Client{prefix: "bhotel"}
	assert.Equal(t, "bhotel.booking_reaper.runs", client.metricName(" booking reaper/runs "))
	assert.Equal(t, "bhotel.a.b", client.metricName("a...b"))
	assert.Equal(t, "", client.metricName("   "))
}

func TestCloseIdempotent(t *testing.T) {
	addr, _ := startUDPReceiver(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	// Writes after close are dropped.
	client.Count("x", 1, nil)
	assert.False(t, client.Enabled())
}
