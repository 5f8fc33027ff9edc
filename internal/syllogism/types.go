package syllogism

import "github.com/abhisek/syllogiz/internal/logic"

// LogicGroup is the reasoning category a question belongs to. It is set by
// the blueprint that generated the question and drives per-category analytics.
type LogicGroup string

const (
	GroupCategorical LogicGroup = "categorical"
	GroupRelative    LogicGroup = "relative"
	GroupMajority    LogicGroup = "majority"
	GroupComplex     LogicGroup = "complex"
)

// AllGroups lists every logic group in display order.
var AllGroups = []LogicGroup{GroupCategorical, GroupRelative, GroupMajority, GroupComplex}

// Valid reports whether g is one of the four known groups.
func (g LogicGroup) Valid() bool {
	switch g {
	case GroupCategorical, GroupRelative, GroupMajority, GroupComplex:
		return true
	}
	return false
}

// TrickType tags the valid-inference or fallacy pattern a conclusion exercises.
type TrickType string

const (
	// Categorical chain.
	TrickTransitiveChain     TrickType = "transitive-chain"
	TrickExistentialConverse TrickType = "existential-converse"
	TrickConverseTrap        TrickType = "converse-trap"
	TrickNegationOfEntailed  TrickType = "negation-of-entailed"
	TrickParticularDenial    TrickType = "particular-denial"

	// Relative overlap.
	TrickCommutedSome        TrickType = "commuted-some"
	TrickPossibleOverlap     TrickType = "possible-overlap"
	TrickQuantifierStrength  TrickType = "quantifier-strength-trap"
	TrickUnsupportedNegation TrickType = "unsupported-negation"
	TrickChainedOverlapFalse TrickType = "chained-overlap-false"

	// Majority intersect.
	TrickPigeonholeOverlap   TrickType = "pigeonhole-overlap"
	TrickPossibleNoOverlap   TrickType = "possible-no-overlap-trap"
	TrickMajorityToUniversal TrickType = "majority-to-universal"
	TrickPremiseRestatement  TrickType = "premise-restatement"
	TrickExhaustiveCoverage  TrickType = "exhaustive-coverage-trap"

	// Complex conditional.
	TrickContrapositive         TrickType = "contrapositive"
	TrickConverseFallacy        TrickType = "converse-fallacy"
	TrickInverseFallacy         TrickType = "inverse-fallacy"
	TrickConditionalRestatement TrickType = "conditional-restatement"
	TrickUniversalEquivalent    TrickType = "universal-equivalent"

	// Macro chain.
	TrickLinkRestatement     TrickType = "link-restatement"
	TrickGlobalUniversalTrap TrickType = "global-universal-trap"
)

// Question is one (stimulus, conclusion) pair with its ground-truth verdict.
// It is the row shape of the question bank.
type Question struct {
	ID             string     `json:"id" yaml:"id" validate:"required"`
	MacroBlockID   string     `json:"macro_block_id,omitempty" yaml:"macro_block_id,omitempty"`
	StimulusText   string     `json:"stimulus_text" yaml:"stimulus_text" validate:"required"`
	ConclusionText string     `json:"conclusion_text" yaml:"conclusion_text" validate:"required"`
	IsCorrect      bool       `json:"is_correct" yaml:"is_correct"`
	LogicGroup     LogicGroup `json:"logic_group" yaml:"logic_group" validate:"required,oneof=categorical relative majority complex"`
	TrickType      TrickType  `json:"trick_type,omitempty" yaml:"trick_type,omitempty"`
	Explanation    string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Conclusion is a candidate inference produced by a blueprint. Form is the
// formal statement the text renders; it is what the entailment validator
// checks IsCorrect against.
type Conclusion struct {
	Text        string
	IsCorrect   bool
	Group       LogicGroup
	Trick       TrickType
	Explanation string
	Form        logic.Prop
}

// Block is the output of one blueprint run: a stimulus and its fixed set of
// labelled conclusions.
type Block struct {
	Blueprint   string
	Stimulus    string
	Premises    []logic.Prop
	Terms       int
	Conclusions []Conclusion
}

// ConclusionsPerBlock is the fixed number of conclusions every blueprint emits.
const ConclusionsPerBlock = 5
