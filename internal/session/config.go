package session

import "time"

// Config controls fetch sizes, timeouts and retry behaviour.
type Config struct {
	// MicroCount is the number of questions in a micro run.
	MicroCount int

	// MicroSample and MacroSample bound the rows requested from the source.
	MicroSample int
	MacroSample int

	// MicroTimeout and MacroTimeout bound each fetch attempt.
	MicroTimeout time.Duration
	MacroTimeout time.Duration

	// FetchAttempts is the total number of tries per Fetch.
	FetchAttempts int

	// RetryWait is the pause before the second attempt; it doubles after
	// every further failure.
	RetryWait time.Duration

	// TickInterval is the elapsed-time tick period.
	TickInterval time.Duration
}

// DefaultConfig returns the standard drill settings.
func DefaultConfig() Config {
	return Config{
		MicroCount:    10,
		MicroSample:   60,
		MacroSample:   200,
		MicroTimeout:  10 * time.Second,
		MacroTimeout:  15 * time.Second,
		FetchAttempts: 3,
		RetryWait:     500 * time.Millisecond,
		TickInterval:  time.Second,
	}
}

func (c Config) timeout(m Mode) time.Duration {
	if m == ModeMacro {
		return c.MacroTimeout
	}
	return c.MicroTimeout
}
