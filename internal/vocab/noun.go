package vocab

// NounEntry is a vocabulary item with the grammatical forms every sentence
// template needs.
type NounEntry struct {
	Singular string `json:"singular" yaml:"singular"`
	Plural   string `json:"plural" yaml:"plural"`
	Article  string `json:"article" yaml:"article"` // "a" or "an"
}

// WithArticle returns the singular form preceded by its indefinite article,
// e.g. "an engineer".
func (n NounEntry) WithArticle() string {
	return n.Article + " " + n.Singular
}

// Pool is a named group of nouns. Blueprints that need a natural-sounding
// chain draw all of their nouns from a single pool.
type Pool struct {
	Name  string
	Nouns []NounEntry
}

func n(article, singular, plural string) NounEntry {
	return NounEntry{Singular: singular, Plural: plural, Article: article}
}

// DomainPool holds realistic workplace nouns.
var DomainPool = Pool{
	Name: "domain",
	Nouns: []NounEntry{
		n("a", "manager", "managers"),
		n("an", "engineer", "engineers"),
		n("an", "analyst", "analysts"),
		n("a", "consultant", "consultants"),
		n("a", "director", "directors"),
		n("an", "auditor", "auditors"),
		n("a", "trainee", "trainees"),
		n("a", "negotiator", "negotiators"),
		n("a", "supervisor", "supervisors"),
		n("an", "accountant", "accountants"),
		n("a", "pilot", "pilots"),
		n("a", "surgeon", "surgeons"),
	},
}

// TraitPool holds nouns naming abstract traits of people.
var TraitPool = Pool{
	Name: "trait",
	Nouns: []NounEntry{
		n("a", "leader", "leaders"),
		n("a", "thinker", "thinkers"),
		n("an", "optimist", "optimists"),
		n("a", "perfectionist", "perfectionists"),
		n("a", "risk-taker", "risk-takers"),
		n("a", "planner", "planners"),
		n("a", "sceptic", "sceptics"),
		n("an", "innovator", "innovators"),
		n("a", "listener", "listeners"),
		n("a", "realist", "realists"),
	},
}

// NonsensePool holds invented nouns that carry no real-world associations,
// so learners cannot lean on background knowledge.
var NonsensePool = Pool{
	Name: "nonsense",
	Nouns: []NounEntry{
		n("a", "blorp", "blorps"),
		n("a", "zindle", "zindles"),
		n("a", "quaffle", "quaffles"),
		n("a", "snerk", "snerks"),
		n("a", "trombix", "trombixes"),
		n("a", "wugget", "wuggets"),
		n("a", "florb", "florbs"),
		n("a", "glimmet", "glimmets"),
		n("a", "pilk", "pilks"),
		n("an", "ombly", "omblies"),
	},
}

// DefaultPools returns the built-in pools in a fixed order.
func DefaultPools() []Pool {
	return []Pool{DomainPool, TraitPool, NonsensePool}
}
