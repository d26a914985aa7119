// Package metrics defines the metric names and tag conventions used by the
// background booking maintenance loop.
package metrics

import (
	"time"

	oberrors "github.com/bhotel/bhotel-ui-api/internal/observability/errors"
	"github.com/bhotel/bhotel-ui-api/internal/observability/statsd"
)

// Metric names emitted by the booking reaper.
const (
	MetricReaperRuns     = "booking_reaper.runs"
	MetricReaperDuration = "booking_reaper.duration"
	MetricReaperExpired  = "booking_reaper.bookings_expired"
	MetricReaperClosed   = "booking_reaper.stays_completed"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// CloneTags returns a copy of tags so emit sites can add per-metric tags
// without mutating a shared map.
func CloneTags(tags map[string]string) map[string]string {
	cp := make(map[string]string, len(tags)+2)
	for k, v := range tags {
		cp[k] = v
	}
	return cp
}

// EmitRun records one reaper pass: its outcome, duration, and how many rows
// each cleanup step touched.
func EmitRun(sink statsd.Sink, err error, duration time.Duration, expired, completed int64, tags map[string]string) {
	if sink == nil {
		return
	}

	runTags := CloneTags(tags)
	if err != nil {
		runTags["result"] = ResultError
		runTags["error"] = oberrors.Classify(err)
	} else if expired == 0 && completed == 0 {
		runTags["result"] = ResultNoop
	} else {
		runTags["result"] = ResultSuccess
	}

	sink.Count(MetricReaperRuns, 1, runTags)
	sink.Timing(MetricReaperDuration, duration, runTags)

	if expired > 0 {
		sink.Count(MetricReaperExpired, expired, CloneTags(tags))
	}
	if completed > 0 {
		sink.Count(MetricReaperClosed, completed, CloneTags(tags))
	}
}
