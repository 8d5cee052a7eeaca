package lifecycle

import (
	"sync/atomic"
	"time"
)

// State tracks process lifecycle for health reporting.
type State struct {
	startedAt    time.Time
	shuttingDown atomic.Bool
}

// New returns a State whose uptime counts from now.
func New() *State {
	return &State{startedAt: time.Now()}
}

// SetShuttingDown sets the drain flag. Call when SIGTERM/SIGINT is received;
// the health handler returns 503 shutting-down while it is true.
func (s *State) SetShuttingDown(v bool) {
	s.shuttingDown.Store(v)
}

// IsShuttingDown reports whether the process is draining and should not receive new traffic.
func (s *State) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}

// Uptime returns the time since New.
func (s *State) Uptime() time.Duration {
	return time.Since(s.startedAt)
}
