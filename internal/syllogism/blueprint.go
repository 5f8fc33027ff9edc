package syllogism

import (
	"fmt"
	"strings"

	"github.com/abhisek/syllogiz/internal/logic"
	"github.com/abhisek/syllogiz/internal/vocab"
)

// Blueprint names, also used as the Block.Blueprint tag.
const (
	BlueprintCategorical = "categorical-chain"
	BlueprintRelative    = "relative-overlap"
	BlueprintMajority    = "majority-intersect"
	BlueprintComplex     = "complex-conditional"
	BlueprintMacroChain  = "macro-chain"
)

// MicroBlueprint is a two-premise template over three nouns.
type MicroBlueprint struct {
	Name  string
	Group LogicGroup
	Build func(b *Builder, nouns [3]vocab.NounEntry) Block
}

// MicroBlueprints lists the two-premise templates the micro generator draws from.
var MicroBlueprints = []MicroBlueprint{
	{Name: BlueprintCategorical, Group: GroupCategorical, Build: Categorical},
	{Name: BlueprintRelative, Group: GroupRelative, Build: Relative},
	{Name: BlueprintMajority, Group: GroupMajority, Build: Majority},
	{Name: BlueprintComplex, Group: GroupComplex, Build: Complex},
}

var (
	tx = logic.T(0)
	ty = logic.T(1)
	tz = logic.T(2)
	tw = logic.T(3)
)

func stimulus(sentences ...string) string {
	return strings.Join(sentences, " ")
}

// Categorical builds the chain "All X are Y. All Y are Z."
func Categorical(b *Builder, n [3]vocab.NounEntry) Block {
	x, y, z := n[0], n[1], n[2]
	return Block{
		Blueprint: BlueprintCategorical,
		Stimulus: stimulus(
			b.Sentence(RelAll, x, y),
			b.Sentence(RelAll, y, z),
		),
		Premises: []logic.Prop{logic.Binary(logic.All, tx, ty), logic.Binary(logic.All, ty, tz)},
		Terms:    3,
		Conclusions: []Conclusion{
			{
				Text:        b.Sentence(RelAll, x, z),
				IsCorrect:   true,
				Group:       GroupCategorical,
				Trick:       TrickTransitiveChain,
				Explanation: fmt.Sprintf("Every %s is %s and every %s is %s, so every %s is %s.", x.Singular, y.WithArticle(), y.Singular, z.WithArticle(), x.Singular, z.WithArticle()),
				Form:        logic.Binary(logic.All, tx, tz),
			},
			{
				Text:        b.Sentence(RelSome, z, x),
				IsCorrect:   true,
				Group:       GroupCategorical,
				Trick:       TrickExistentialConverse,
				Explanation: fmt.Sprintf("The %s are all %s, so at least those %s are %s.", x.Plural, z.Plural, z.Plural, x.Plural),
				Form:        logic.Binary(logic.Some, tz, tx),
			},
			{
				Text:        b.Sentence(RelAll, z, x),
				IsCorrect:   false,
				Group:       GroupCategorical,
				Trick:       TrickConverseTrap,
				Explanation: fmt.Sprintf("The chain only runs from %s to %s. There may be %s that are not %s.", x.Plural, z.Plural, z.Plural, x.Plural),
				Form:        logic.Binary(logic.All, tz, tx),
			},
			{
				Text:        b.Sentence(RelNone, x, z),
				IsCorrect:   false,
				Group:       GroupCategorical,
				Trick:       TrickNegationOfEntailed,
				Explanation: fmt.Sprintf("Every %s is %s, so saying no %s are %s contradicts the premises.", x.Singular, z.WithArticle(), x.Plural, z.Plural),
				Form:        logic.Binary(logic.None, tx, tz),
			},
			{
				Text:        b.Sentence(RelSomeNot, x, z),
				IsCorrect:   false,
				Group:       GroupCategorical,
				Trick:       TrickParticularDenial,
				Explanation: fmt.Sprintf("Every %s is %s, so no %s can fall outside the %s.", x.Singular, z.WithArticle(), x.Singular, z.Plural),
				Form:        logic.Binary(logic.SomeNot, tx, tz),
			},
		},
	}
}

// Relative builds "All X are Y. Some Z are Y."
func Relative(b *Builder, n [3]vocab.NounEntry) Block {
	x, y, z := n[0], n[1], n[2]
	return Block{
		Blueprint: BlueprintRelative,
		Stimulus: stimulus(
			b.Sentence(RelAll, x, y),
			b.Sentence(RelSome, z, y),
		),
		Premises: []logic.Prop{logic.Binary(logic.All, tx, ty), logic.Binary(logic.Some, tz, ty)},
		Terms:    3,
		Conclusions: []Conclusion{
			{
				Text:        b.Sentence(RelSome, y, z),
				IsCorrect:   true,
				Group:       GroupRelative,
				Trick:       TrickCommutedSome,
				Explanation: fmt.Sprintf("\"Some %s are %s\" works in both directions: the shared members are also %s that are %s.", z.Plural, y.Plural, y.Plural, z.Plural),
				Form:        logic.Binary(logic.Some, ty, tz),
			},
			{
				Text:        b.Sentence(RelPossiblySome, x, z),
				IsCorrect:   true,
				Group:       GroupRelative,
				Trick:       TrickPossibleOverlap,
				Explanation: fmt.Sprintf("Nothing rules out an overlap between %s and %s, so it is possible.", x.Plural, z.Plural),
				Form:        logic.Maybe(logic.Binary(logic.Some, tx, tz)),
			},
			{
				Text:        b.Sentence(RelAll, z, y),
				IsCorrect:   false,
				Group:       GroupRelative,
				Trick:       TrickQuantifierStrength,
				Explanation: fmt.Sprintf("Only some %s are known to be %s. \"Some\" never licenses \"all\".", z.Plural, y.Plural),
				Form:        logic.Binary(logic.All, tz, ty),
			},
			{
				Text:        b.Sentence(RelNone, x, z),
				IsCorrect:   false,
				Group:       GroupRelative,
				Trick:       TrickUnsupportedNegation,
				Explanation: fmt.Sprintf("The premises say nothing that separates %s from %s, so \"none\" is not supported.", x.Plural, z.Plural),
				Form:        logic.Binary(logic.None, tx, tz),
			},
			{
				Text:        b.Sentence(RelSome, x, z),
				IsCorrect:   false,
				Group:       GroupRelative,
				Trick:       TrickChainedOverlapFalse,
				Explanation: fmt.Sprintf("The %s that are %s may all lie outside the %s, so no overlap with %s is guaranteed.", z.Plural, y.Plural, x.Plural, x.Plural),
				Form:        logic.Binary(logic.Some, tx, tz),
			},
		},
	}
}

// Majority builds "Most X are Y. Most X are Z."
func Majority(b *Builder, n [3]vocab.NounEntry) Block {
	x, y, z := n[0], n[1], n[2]
	return Block{
		Blueprint: BlueprintMajority,
		Stimulus: stimulus(
			b.Sentence(RelMost, x, y),
			b.Sentence(RelMost, x, z),
		),
		Premises: []logic.Prop{logic.Binary(logic.Most, tx, ty), logic.Binary(logic.Most, tx, tz)},
		Terms:    3,
		Conclusions: []Conclusion{
			{
				Text:        b.Sentence3(RelSomeBoth, x, y, z),
				IsCorrect:   true,
				Group:       GroupMajority,
				Trick:       TrickPigeonholeOverlap,
				Explanation: fmt.Sprintf("Two groups that each hold more than half of the %s must share at least one member.", x.Plural),
				Form:        logic.Ternary(logic.SomeBoth, tx, ty, tz),
			},
			{
				Text:        b.Sentence3(RelPossiblyNoBoth, x, y, z),
				IsCorrect:   false,
				Group:       GroupMajority,
				Trick:       TrickPossibleNoOverlap,
				Explanation: fmt.Sprintf("Two majorities of the %s cannot be disjoint, so a zero overlap is impossible.", x.Plural),
				Form:        logic.Maybe(logic.Ternary(logic.NoBoth, tx, ty, tz)),
			},
			{
				Text:        b.Sentence(RelAll, x, y),
				IsCorrect:   false,
				Group:       GroupMajority,
				Trick:       TrickMajorityToUniversal,
				Explanation: fmt.Sprintf("\"Most\" leaves room for %s that are not %s.", x.Plural, y.Plural),
				Form:        logic.Binary(logic.All, tx, ty),
			},
			{
				Text:        b.Sentence(RelMost, x, y),
				IsCorrect:   true,
				Group:       GroupMajority,
				Trick:       TrickPremiseRestatement,
				Explanation: "This restates the first premise.",
				Form:        logic.Binary(logic.Most, tx, ty),
			},
			{
				Text:        b.Sentence3(RelEveryEither, x, y, z),
				IsCorrect:   false,
				Group:       GroupMajority,
				Trick:       TrickExhaustiveCoverage,
				Explanation: fmt.Sprintf("Both majorities can miss the same %s, so some %s may be neither %s nor %s.", x.Singular, x.Plural, y.Plural, z.Plural),
				Form:        logic.Ternary(logic.EveryEither, tx, ty, tz),
			},
		},
	}
}

// Complex builds the single conditional "If X then Y." The third noun is unused.
func Complex(b *Builder, n [3]vocab.NounEntry) Block {
	x, y := n[0], n[1]
	return Block{
		Blueprint: BlueprintComplex,
		Stimulus:  stimulus(b.Sentence(RelIfThen, x, y)),
		Premises:  []logic.Prop{logic.Binary(logic.All, tx, ty)},
		Terms:     2,
		Conclusions: []Conclusion{
			{
				Text:        b.Sentence(RelIfNotThenNot, y, x),
				IsCorrect:   true,
				Group:       GroupComplex,
				Trick:       TrickContrapositive,
				Explanation: fmt.Sprintf("If being %s always brings being %s, anything that is not %s cannot be %s.", x.WithArticle(), y.WithArticle(), y.WithArticle(), x.WithArticle()),
				Form:        logic.Binary(logic.All, logic.Not(1), logic.Not(0)),
			},
			{
				Text:        b.Sentence(RelIfThen, y, x),
				IsCorrect:   false,
				Group:       GroupComplex,
				Trick:       TrickConverseFallacy,
				Explanation: fmt.Sprintf("Reversing the conditional is the converse fallacy: something can be %s without being %s.", y.WithArticle(), x.WithArticle()),
				Form:        logic.Binary(logic.All, ty, tx),
			},
			{
				Text:        b.Sentence(RelIfNotThenNot, x, y),
				IsCorrect:   false,
				Group:       GroupComplex,
				Trick:       TrickInverseFallacy,
				Explanation: fmt.Sprintf("Negating both sides is the inverse fallacy: something that is not %s may still be %s.", x.WithArticle(), y.WithArticle()),
				Form:        logic.Binary(logic.All, logic.Not(0), logic.Not(1)),
			},
			{
				Text:        b.Sentence(RelIfThen, x, y),
				IsCorrect:   true,
				Group:       GroupComplex,
				Trick:       TrickConditionalRestatement,
				Explanation: "This restates the premise.",
				Form:        logic.Binary(logic.All, tx, ty),
			},
			{
				Text:        b.Sentence(RelAll, x, y),
				IsCorrect:   true,
				Group:       GroupComplex,
				Trick:       TrickUniversalEquivalent,
				Explanation: fmt.Sprintf("\"If something is %s, it is %s\" says the same as \"all %s are %s\".", x.WithArticle(), y.WithArticle(), x.Plural, y.Plural),
				Form:        logic.Binary(logic.All, tx, ty),
			},
		},
	}
}

// MacroChain builds the four-noun chain "All A are B. Some B are C. Most C
// are D." Its conclusions span all four logic groups.
func MacroChain(b *Builder, n [4]vocab.NounEntry) Block {
	a, bb, c, d := n[0], n[1], n[2], n[3]
	return Block{
		Blueprint: BlueprintMacroChain,
		Stimulus: stimulus(
			b.Sentence(RelAll, a, bb),
			b.Sentence(RelSome, bb, c),
			b.Sentence(RelMost, c, d),
		),
		Premises: []logic.Prop{
			logic.Binary(logic.All, tx, ty),
			logic.Binary(logic.Some, ty, tz),
			logic.Binary(logic.Most, tz, tw),
		},
		Terms: 4,
		Conclusions: []Conclusion{
			{
				Text:        b.Sentence(RelAll, a, bb),
				IsCorrect:   true,
				Group:       GroupCategorical,
				Trick:       TrickLinkRestatement,
				Explanation: fmt.Sprintf("This restates the first link: all %s are %s.", a.Plural, bb.Plural),
				Form:        logic.Binary(logic.All, tx, ty),
			},
			{
				Text:        b.Sentence(RelSome, bb, c),
				IsCorrect:   true,
				Group:       GroupRelative,
				Trick:       TrickLinkRestatement,
				Explanation: fmt.Sprintf("This restates the second link: some %s are %s.", bb.Plural, c.Plural),
				Form:        logic.Binary(logic.Some, ty, tz),
			},
			{
				Text:        b.Sentence(RelSome, a, c),
				IsCorrect:   false,
				Group:       GroupRelative,
				Trick:       TrickChainedOverlapFalse,
				Explanation: fmt.Sprintf("The %s that are %s need not include any of the %s, so \"all\" followed by \"some\" does not carry over.", bb.Plural, c.Plural, a.Plural),
				Form:        logic.Binary(logic.Some, tx, tz),
			},
			{
				Text:        b.Sentence(RelMost, c, d),
				IsCorrect:   true,
				Group:       GroupMajority,
				Trick:       TrickLinkRestatement,
				Explanation: fmt.Sprintf("This restates the third link: most %s are %s.", c.Plural, d.Plural),
				Form:        logic.Binary(logic.Most, tz, tw),
			},
			{
				Text:        b.Sentence(RelAll, a, d),
				IsCorrect:   false,
				Group:       GroupComplex,
				Trick:       TrickGlobalUniversalTrap,
				Explanation: fmt.Sprintf("Only the first link is universal. The \"some\" and \"most\" links are too weak to make every %s %s.", a.Singular, d.WithArticle()),
				Form:        logic.Binary(logic.All, tx, tw),
			},
		},
	}
}
