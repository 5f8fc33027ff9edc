package session

import "errors"

var (
	// ErrNoQuestions means the bank had nothing usable for the mode, including
	// a macro sample with no complete five-question block.
	ErrNoQuestions = errors.New("no questions available")

	// ErrFetchTimeout means an attempt did not finish within the mode's timeout.
	ErrFetchTimeout = errors.New("question fetch timed out")

	// ErrFetchFailed wraps any other source failure.
	ErrFetchFailed = errors.New("question fetch failed")

	// ErrIncomplete rejects a macro submit with unanswered conclusions.
	ErrIncomplete = errors.New("every conclusion needs an answer before submitting")

	// ErrNotActive rejects answer events outside an active run of the right mode.
	ErrNotActive = errors.New("no active run for this action")

	// ErrStale is returned by a fetch that was superseded or torn down
	// before its result arrived. The result was discarded.
	ErrStale = errors.New("fetch superseded")

	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("session closed")
)

// UserMessage maps a fetch error to the text shown to the learner. Store and
// driver error text never reaches the screen.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoQuestions):
		return "No questions available. Seed the question bank and try again."
	case errors.Is(err, ErrFetchTimeout):
		return "Loading questions took too long. Please try again."
	case errors.Is(err, ErrIncomplete):
		return "Answer every conclusion before submitting."
	}
	return "Could not load questions. Please try again."
}
