package syllogism

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRow marks a question row that fails field validation.
var ErrInvalidRow = errors.New("invalid question row")

var (
	rowValidator     *validator.Validate
	rowValidatorOnce sync.Once
)

func validate() *validator.Validate {
	rowValidatorOnce.Do(func() {
		rowValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return rowValidator
}

// ValidateRow checks a bank row's required fields and logic group. The
// returned error wraps ErrInvalidRow and names the failing fields.
func ValidateRow(q Question) error {
	err := validate().Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidRow, q.ID, strings.Join(fields, ", "))
}

// ValidateRows checks every row and returns the first failure.
func ValidateRows(qs []Question) error {
	for i, q := range qs {
		if err := ValidateRow(q); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// GroupBlocks partitions rows by block id and keeps only complete macro
// blocks: exactly ConclusionsPerBlock rows sharing one stimulus. Rows without
// a block id are ignored. Blocks are returned in order of first appearance.
func GroupBlocks(rows []Question) [][]Question {
	var order []string
	groups := make(map[string][]Question)
	for _, r := range rows {
		if r.MacroBlockID == "" {
			continue
		}
		if _, ok := groups[r.MacroBlockID]; !ok {
			order = append(order, r.MacroBlockID)
		}
		groups[r.MacroBlockID] = append(groups[r.MacroBlockID], r)
	}

	var out [][]Question
	for _, id := range order {
		g := groups[id]
		if len(g) != ConclusionsPerBlock || !sharedStimulus(g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func sharedStimulus(g []Question) bool {
	for _, q := range g[1:] {
		if q.StimulusText != g[0].StimulusText {
			return false
		}
	}
	return true
}
