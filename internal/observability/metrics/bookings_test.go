package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	name  string
	value int64
	tags  map[string]string
}

type recordingSink struct {
	counts  []recordedMetric
	timings []recordedMetric
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.counts = append(r.counts, recordedMetric{name: name, value: value, tags: tags})
}

func (r *recordingSink) Gauge(name string, value float64, tags map[string]string) {}

func (r *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	r.timings = append(r.timings, recordedMetric{name: name, value: int64(value), tags: tags})
}

func TestCloneTags(t *testing.T) {
	orig := map[string]string{"component": "reaper"}
	cp := CloneTags(orig)
	cp["result"] = ResultSuccess

	assert.NotContains(t, orig, "result")
	assert.Equal(t, "reaper", cp["component"])
}

func TestEmitRunSuccess(t *testing.T) {
	sink := &recordingSink{}

	EmitRun(sink, nil, 250*time.Millisecond, 3, 1, map[string]string{"component": "reaper"})

	require.Len(t, sink.counts, 3)
	assert.Equal(t, MetricReaperRuns, sink.counts[0].name)
	assert.Equal(t, ResultSuccess, sink.counts[0].tags["result"])
	assert.Equal(t, "reaper", sink.counts[0].tags["component"])

	assert.Equal(t, MetricReaperExpired, sink.counts[1].name)
	assert.Equal(t, int64(3), sink.counts[1].value)
	assert.Equal(t, MetricReaperClosed, sink.counts[2].name)
	assert.Equal(t, int64(1), sink.counts[2].value)

	require.Len(t, sink.timings, 1)
	assert.Equal(t, MetricReaperDuration, sink.timings[0].name)
}

func TestEmitRunNoop(t *testing.T) {
	sink := &recordingSink{}

	EmitRun(sink, nil, time.Millisecond, 0, 0, nil)

	require.Len(t, sink.counts, 1)
	assert.Equal(t, ResultNoop, sink.counts[0].tags["result"])
}

func TestEmitRunError(t *testing.T) {
	sink := &recordingSink{}

	EmitRun(sink, errors.New("boom"), time.Millisecond, 0, 0, nil)

	require.Len(t, sink.counts, 1)
	assert.Equal(t, ResultError, sink.counts[0].tags["result"])
	assert.Equal(t, "unknown", sink.counts[0].tags["error"])
}

func TestEmitRunNilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitRun(nil, nil, time.Second, 1, 1, nil)
	})
}
