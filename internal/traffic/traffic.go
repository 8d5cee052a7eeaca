package traffic

import (
	"sync"
	"time"
)

const defaultRetention = 5 * time.Minute

// Tracker maintains sliding windows of chart request outcomes: served, rejected
// (invalid or unknown location) and denied (rate limited). It feeds the health
// check's overload rule and the window gauges in observability.
type Tracker struct {
	mu            sync.Mutex
	retention     time.Duration
	now           func() time.Time
	servedTimes   []time.Time
	rejectedTimes []time.Time
	deniedTimes   []time.Time
}

// NewTracker returns a Tracker that keeps outcomes for at least retention.
// A non-positive retention uses five minutes.
func NewTracker(retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Tracker{retention: retention, now: time.Now}
}

// RecordServed records a chart request that produced charts.
func (t *Tracker) RecordServed() {
	t.recordOutcome(&t.servedTimes)
}

// RecordRejected records a chart request refused for a bad location.
func (t *Tracker) RecordRejected() {
	t.recordOutcome(&t.rejectedTimes)
}

// RecordDenied records a rate-limit denial (429).
func (t *Tracker) RecordDenied() {
	t.recordOutcome(&t.deniedTimes)
}

func (t *Tracker) recordOutcome(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// RequestCount returns the number of outcomes (served + rejected + denied) within the window.
func (t *Tracker) RequestCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-window)
	return countInWindow(t.servedTimes, cutoff) +
		countInWindow(t.rejectedTimes, cutoff) +
		countInWindow(t.deniedTimes, cutoff)
}

// DenialCount returns the number of rate-limit denials within the window.
func (t *Tracker) DenialCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return countInWindow(t.deniedTimes, t.now().Add(-window))
}

// RejectionRate returns (rejected, total) within the window. Denials are excluded.
func (t *Tracker) RejectionRate(window time.Duration) (rejected, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-window)
	rejected = countInWindow(t.rejectedTimes, cutoff)
	return rejected, rejected + countInWindow(t.servedTimes, cutoff)
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.servedTimes = nil
	t.rejectedTimes = nil
	t.deniedTimes = nil
}

func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than the retention period. Must be called with mu held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.retention)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.servedTimes)
	prune(&t.rejectedTimes)
	prune(&t.deniedTimes)
}
