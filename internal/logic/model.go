package logic

import "fmt"

// MaxIndividuals bounds the size of the models the checker enumerates.
// Every invalid inference the blueprints emit has a counter-model with at
// most three individuals.
const MaxIndividuals = 4

// Model is a finite universe. Each individual is a bitmask of the terms it
// belongs to.
type Model []uint8

func (m Model) member(ind uint8, t Term) bool {
	in := ind&(1<<uint(t.Index)) != 0
	return in != t.Negated
}

func (m Model) count(pred func(uint8) bool) int {
	c := 0
	for _, ind := range m {
		if pred(ind) {
			c++
		}
	}
	return c
}

// Holds evaluates the inner relation of p in m, ignoring Possibly.
func Holds(p Prop, m Model) bool {
	inA := func(i uint8) bool { return m.member(i, p.A) }
	inB := func(i uint8) bool { return m.member(i, p.B) }
	inC := func(i uint8) bool { return m.member(i, p.C) }

	switch p.Kind {
	case All:
		return m.count(func(i uint8) bool { return inA(i) && !inB(i) }) == 0
	case Some:
		return m.count(func(i uint8) bool { return inA(i) && inB(i) }) > 0
	case Most:
		return 2*m.count(func(i uint8) bool { return inA(i) && inB(i) }) > m.count(inA)
	case None:
		return m.count(func(i uint8) bool { return inA(i) && inB(i) }) == 0
	case SomeNot:
		return m.count(func(i uint8) bool { return inA(i) && !inB(i) }) > 0
	case SomeBoth:
		return m.count(func(i uint8) bool { return inA(i) && inB(i) && inC(i) }) > 0
	case EveryEither:
		return m.count(func(i uint8) bool { return inA(i) && !inB(i) && !inC(i) }) == 0
	case NoBoth:
		return m.count(func(i uint8) bool { return inA(i) && inB(i) && inC(i) }) == 0
	}
	return false
}

// Checker holds every bounded model of a premise set, so several
// conclusions can be tested against the same premises cheaply.
type Checker struct {
	terms  int
	models []Model
}

// NewChecker enumerates all models with 1..MaxIndividuals individuals over
// terms sets in which every (un-negated) term is non-empty and every premise
// holds.
func NewChecker(premises []Prop, terms int) (*Checker, error) {
	if terms < 1 || terms > MaxTerms {
		return nil, fmt.Errorf("term count %d out of range 1..%d", terms, MaxTerms)
	}
	for _, p := range premises {
		if p.Possibly {
			return nil, fmt.Errorf("premise %s: premises cannot be possibility claims", p)
		}
		if p.maxIndex() >= terms {
			return nil, fmt.Errorf("premise %s refers to a term beyond %d", p, terms)
		}
	}

	c := &Checker{terms: terms}
	masks := uint8(1 << uint(terms))
	full := masks - 1

	var walk func(m Model, from uint8)
	walk = func(m Model, from uint8) {
		if len(m) > 0 && covers(m, full) && satisfies(m, premises) {
			c.models = append(c.models, append(Model(nil), m...))
		}
		if len(m) == MaxIndividuals {
			return
		}
		for mask := from; mask < masks; mask++ {
			walk(append(m, mask), mask)
		}
	}
	walk(make(Model, 0, MaxIndividuals), 0)
	return c, nil
}

// Consistent reports whether the premises have at least one model.
func (c *Checker) Consistent() bool {
	return len(c.models) > 0
}

// Entails reports whether the conclusion follows from the premises. A
// possibility claim follows when at least one premise model satisfies it;
// any other claim follows when every premise model satisfies it.
func (c *Checker) Entails(conclusion Prop) bool {
	if conclusion.maxIndex() >= c.terms {
		return false
	}
	if conclusion.Possibly {
		for _, m := range c.models {
			if Holds(conclusion, m) {
				return true
			}
		}
		return false
	}
	if len(c.models) == 0 {
		return true
	}
	for _, m := range c.models {
		if !Holds(conclusion, m) {
			return false
		}
	}
	return true
}

// CounterModel returns a premise model in which the conclusion fails, or nil.
// For possibility claims it returns nil; they have no single witness of failure.
func (c *Checker) CounterModel(conclusion Prop) Model {
	if conclusion.Possibly {
		return nil
	}
	for _, m := range c.models {
		if !Holds(conclusion, m) {
			return m
		}
	}
	return nil
}

// Entails is a convenience wrapper for a single premise/conclusion check.
func Entails(premises []Prop, conclusion Prop, terms int) (bool, error) {
	c, err := NewChecker(premises, terms)
	if err != nil {
		return false, err
	}
	return c.Entails(conclusion), nil
}

// covers reports whether every term has at least one member (existential import).
func covers(m Model, full uint8) bool {
	var seen uint8
	for _, ind := range m {
		seen |= ind
	}
	return seen == full
}

func satisfies(m Model, premises []Prop) bool {
	for _, p := range premises {
		if !Holds(p, m) {
			return false
		}
	}
	return true
}
