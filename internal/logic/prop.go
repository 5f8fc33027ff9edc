// Package logic models the quantified statements used by the syllogism
// blueprints and decides entailment between them by exhaustive search over
// small finite models.
package logic

import "fmt"

// MaxTerms is the largest number of distinct terms a proposition set may use.
const MaxTerms = 4

// Term refers to one of the nouns of a blueprint by position. A negated term
// denotes the complement ("things that are not X").
type Term struct {
	Index   int
	Negated bool
}

// T returns the plain term for noun position i.
func T(i int) Term { return Term{Index: i} }

// Not returns the complement term for noun position i.
func Not(i int) Term { return Term{Index: i, Negated: true} }

func (t Term) String() string {
	name := string(rune('A' + t.Index))
	if t.Negated {
		return "non-" + name
	}
	return name
}

// Kind is the quantified relation a proposition asserts.
type Kind int

const (
	All         Kind = iota // every A is B
	Some                    // at least one A is B
	Most                    // strictly more than half of the As are B
	None                    // no A is B
	SomeNot                 // at least one A is not B
	SomeBoth                // at least one A is both B and C
	EveryEither             // every A is B or C
	NoBoth                  // no A is both B and C
)

var kindNames = map[Kind]string{
	All:         "all",
	Some:        "some",
	Most:        "most",
	None:        "none",
	SomeNot:     "some-not",
	SomeBoth:    "some-both",
	EveryEither: "every-either",
	NoBoth:      "no-both",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ternary reports whether the kind uses the third term C.
func (k Kind) ternary() bool {
	return k == SomeBoth || k == EveryEither || k == NoBoth
}

// Prop is a single quantified statement. When Possibly is set the statement
// claims only that the inner relation is consistent with the premises.
type Prop struct {
	Kind     Kind
	A, B, C  Term
	Possibly bool
}

// Binary builds a two-term proposition.
func Binary(k Kind, a, b Term) Prop {
	return Prop{Kind: k, A: a, B: b}
}

// Ternary builds a three-term proposition.
func Ternary(k Kind, a, b, c Term) Prop {
	return Prop{Kind: k, A: a, B: b, C: c}
}

// Maybe marks a proposition as a possibility claim.
func Maybe(p Prop) Prop {
	p.Possibly = true
	return p
}

func (p Prop) String() string {
	s := fmt.Sprintf("%s(%s,%s", p.Kind, p.A, p.B)
	if p.Kind.ternary() {
		s += "," + p.C.String()
	}
	s += ")"
	if p.Possibly {
		s = "possibly " + s
	}
	return s
}

// maxIndex returns the highest term index the proposition refers to.
func (p Prop) maxIndex() int {
	m := max(p.A.Index, p.B.Index)
	if p.Kind.ternary() {
		m = max(m, p.C.Index)
	}
	return m
}
