package data

import "time"

// TimeProvider supplies the current time so repositories can be tested with
// a fixed clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using the system clock.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider implements TimeProvider with a fixed time for testing.
type FixedTimeProvider struct {
	fixedTime time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider with the given time.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

func (f *FixedTimeProvider) Now() time.Time { return f.fixedTime }

// SetTime updates the fixed time.
func (f *FixedTimeProvider) SetTime(t time.Time) { f.fixedTime = t }

// AddTime advances the fixed time by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) { f.fixedTime = f.fixedTime.Add(d) }
