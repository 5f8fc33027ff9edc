package syllogism

import (
	"fmt"

	"github.com/abhisek/syllogiz/internal/logic"
)

// Validator checks a generated block before its conclusions are emitted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logging,
	// e.g. "structural", "entailment".
	Name() string

	// Validate returns nil if the block passes, otherwise a ValidationError.
	Validate(b *Block) *ValidationError
}

// ValidationError describes why a block failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether drawing new nouns is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&EntailmentValidator{},
	}
}

// StructuralValidator checks conclusion count, non-empty text and tags.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(b *Block) *ValidationError {
	if b.Stimulus == "" {
		return &ValidationError{Validator: v.Name(), Message: "stimulus is empty"}
	}
	if len(b.Conclusions) != ConclusionsPerBlock {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d conclusions, got %d", ConclusionsPerBlock, len(b.Conclusions)),
		}
	}
	seen := make(map[string]bool, len(b.Conclusions))
	for i, c := range b.Conclusions {
		if c.Text == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("conclusion %d has empty text", i)}
		}
		if c.Explanation == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("conclusion %d has empty explanation", i)}
		}
		if !c.Group.Valid() {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("conclusion %d has unknown logic group %q", i, c.Group)}
		}
		if c.Trick == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("conclusion %d has no trick type", i)}
		}
		// Two conclusions rendering to the same sentence would only happen if
		// the sampler handed back a repeated noun.
		if seen[c.Text] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("conclusion %d duplicates an earlier conclusion", i),
				Retryable: true,
			}
		}
		seen[c.Text] = true
	}
	return nil
}

// EntailmentValidator re-derives every label from the formal premises and
// conclusion forms, independently of the hard-coded IsCorrect value.
type EntailmentValidator struct{}

func (v *EntailmentValidator) Name() string { return "entailment" }

func (v *EntailmentValidator) Validate(b *Block) *ValidationError {
	checker, err := logic.NewChecker(b.Premises, b.Terms)
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if !checker.Consistent() {
		return &ValidationError{Validator: v.Name(), Message: "premises are inconsistent"}
	}
	for i, c := range b.Conclusions {
		if got := checker.Entails(c.Form); got != c.IsCorrect {
			return &ValidationError{
				Validator: v.Name(),
				Message: fmt.Sprintf("conclusion %d (%s, %s) labelled %t but premises give %t",
					i, c.Trick, c.Form, c.IsCorrect, got),
			}
		}
	}
	return nil
}
