package syllogism

import (
	"math/rand/v2"

	"github.com/abhisek/syllogiz/internal/vocab"
)

// Relation is a grammatical relation between a subject and a predicate noun.
type Relation int

const (
	RelAll          Relation = iota // universal affirmative
	RelSome                         // existential
	RelMost                         // majority
	RelNone                         // universal negative
	RelSomeNot                      // particular negative
	RelIfThen                       // conditional
	RelIfNotThenNot                 // conditional over complements
	RelPossiblySome                 // possibility of overlap
)

// Relation3 relates a subject to two predicate nouns.
type Relation3 int

const (
	RelSomeBoth       Relation3 = iota // some S are both P and Q
	RelEveryEither                     // every S is P or Q
	RelPossiblyNoBoth                  // possibly no S is both P and Q
)

type phrase func(s, p vocab.NounEntry) string

type phrase3 func(s, p, q vocab.NounEntry) string

// Each relation maps to a closed set of paraphrases. Choice among them is
// cosmetic: every paraphrase of a relation asserts the same thing.
var phrases = map[Relation][]phrase{
	RelAll: {
		func(s, p vocab.NounEntry) string { return "All " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "Every " + s.Singular + " is " + p.WithArticle() + "." },
		func(s, p vocab.NounEntry) string { return "Each " + s.Singular + " is " + p.WithArticle() + "." },
		func(s, p vocab.NounEntry) string { return "Without exception, " + s.Plural + " are " + p.Plural + "." },
	},
	RelSome: {
		func(s, p vocab.NounEntry) string { return "Some " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "At least one " + s.Singular + " is " + p.WithArticle() + "." },
		func(s, p vocab.NounEntry) string { return "There are " + s.Plural + " that are " + p.Plural + "." },
	},
	RelMost: {
		func(s, p vocab.NounEntry) string { return "Most " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "The majority of " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "More than half of all " + s.Plural + " are " + p.Plural + "." },
	},
	RelNone: {
		func(s, p vocab.NounEntry) string { return "No " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "No " + s.Singular + " is " + p.WithArticle() + "." },
		func(s, p vocab.NounEntry) string { return "None of the " + s.Plural + " are " + p.Plural + "." },
	},
	RelSomeNot: {
		func(s, p vocab.NounEntry) string { return "Some " + s.Plural + " are not " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "Not all " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "At least one " + s.Singular + " is not " + p.WithArticle() + "." },
	},
	RelIfThen: {
		func(s, p vocab.NounEntry) string {
			return "If something is " + s.WithArticle() + ", then it is " + p.WithArticle() + "."
		},
		func(s, p vocab.NounEntry) string {
			return "Whenever something is " + s.WithArticle() + ", it is also " + p.WithArticle() + "."
		},
		func(s, p vocab.NounEntry) string {
			return "Being " + s.WithArticle() + " guarantees being " + p.WithArticle() + "."
		},
	},
	RelIfNotThenNot: {
		func(s, p vocab.NounEntry) string {
			return "If something is not " + s.WithArticle() + ", then it is not " + p.WithArticle() + "."
		},
		func(s, p vocab.NounEntry) string {
			return "Anything that is not " + s.WithArticle() + " is not " + p.WithArticle() + " either."
		},
		func(s, p vocab.NounEntry) string {
			return "Whatever is not " + s.WithArticle() + " cannot be " + p.WithArticle() + "."
		},
	},
	RelPossiblySome: {
		func(s, p vocab.NounEntry) string { return "Some " + s.Plural + " could be " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "It is possible that some " + s.Plural + " are " + p.Plural + "." },
		func(s, p vocab.NounEntry) string { return "Some " + s.Plural + " may be " + p.Plural + "." },
	},
}

var phrases3 = map[Relation3][]phrase3{
	RelSomeBoth: {
		func(s, p, q vocab.NounEntry) string {
			return "Some " + s.Plural + " are both " + p.Plural + " and " + q.Plural + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "At least one " + s.Singular + " is both " + p.WithArticle() + " and " + q.WithArticle() + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "There is at least one " + s.Singular + " that is " + p.WithArticle() + " as well as " + q.WithArticle() + "."
		},
	},
	RelEveryEither: {
		func(s, p, q vocab.NounEntry) string {
			return "Every " + s.Singular + " is either " + p.WithArticle() + " or " + q.WithArticle() + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "All " + s.Plural + " are " + p.Plural + " or " + q.Plural + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "There is no " + s.Singular + " that is neither " + p.WithArticle() + " nor " + q.WithArticle() + "."
		},
	},
	RelPossiblyNoBoth: {
		func(s, p, q vocab.NounEntry) string {
			return "It is possible that no " + s.Singular + " is both " + p.WithArticle() + " and " + q.WithArticle() + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "Possibly, none of the " + s.Plural + " are both " + p.Plural + " and " + q.Plural + "."
		},
		func(s, p, q vocab.NounEntry) string {
			return "There may be no " + s.Singular + " that is " + p.WithArticle() + " as well as " + q.WithArticle() + "."
		},
	},
}

// Builder renders relations into English sentences, picking a paraphrase
// with its random source.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a Builder drawing paraphrases from rng.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Sentence renders rel between subject and predicate.
func (b *Builder) Sentence(rel Relation, subject, predicate vocab.NounEntry) string {
	opts := phrases[rel]
	return opts[b.rng.IntN(len(opts))](subject, predicate)
}

// Sentence3 renders rel between subject and two predicates.
func (b *Builder) Sentence3(rel Relation3, subject, p, q vocab.NounEntry) string {
	opts := phrases3[rel]
	return opts[b.rng.IntN(len(opts))](subject, p, q)
}

// Paraphrases returns every rendering of rel for the given nouns, in table order.
func Paraphrases(rel Relation, subject, predicate vocab.NounEntry) []string {
	out := make([]string, 0, len(phrases[rel]))
	for _, f := range phrases[rel] {
		out = append(out, f(subject, predicate))
	}
	return out
}

// Paraphrases3 is the three-noun counterpart of Paraphrases.
func Paraphrases3(rel Relation3, subject, p, q vocab.NounEntry) []string {
	out := make([]string, 0, len(phrases3[rel]))
	for _, f := range phrases3[rel] {
		out = append(out, f(subject, p, q))
	}
	return out
}
