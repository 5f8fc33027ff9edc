package drill

import (
	"time"

	"github.com/abhisek/syllogiz/internal/session"
)

// TickMsg reports the controller's elapsed time. The app forwards it from
// the controller's OnTick hook.
type TickMsg struct {
	Elapsed time.Duration
}

// fetchedMsg is sent when a Fetch call returns.
type fetchedMsg struct {
	err error
}

// steppedMsg is sent when Advance or Submit returns. summary is set once
// the run has finished.
type steppedMsg struct {
	summary *session.Summary
	err     error
}
