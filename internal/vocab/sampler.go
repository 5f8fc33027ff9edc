package vocab

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MinPoolSize is the number of distinct nouns the largest blueprint needs
// from a single pool.
const MinPoolSize = 4

// maxDrawAttempts bounds the retry-until-distinct loop of PickNounTriple.
const maxDrawAttempts = 32

// ErrPoolTooSmall is returned by NewSampler when a pool cannot supply
// MinPoolSize distinct nouns.
var ErrPoolTooSmall = errors.New("vocabulary pool too small")

// Sampler draws distinct nouns from a fixed set of pools.
// It is not safe for concurrent use; the underlying rand.Rand is not.
type Sampler struct {
	pools []Pool
	rng   *rand.Rand
}

// NewSampler validates the pools and returns a Sampler.
// Every pool must contain at least MinPoolSize distinct singular forms.
func NewSampler(pools []Pool, rng *rand.Rand) (*Sampler, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("%w: no pools", ErrPoolTooSmall)
	}
	for _, p := range pools {
		if d := distinctCount(p); d < MinPoolSize {
			return nil, fmt.Errorf("%w: pool %q has %d distinct nouns, need %d",
				ErrPoolTooSmall, p.Name, d, MinPoolSize)
		}
	}
	return &Sampler{pools: pools, rng: rng}, nil
}

// PickNounTriple draws three mutually distinct nouns (x, y, z), each from a
// uniformly chosen pool.
func (s *Sampler) PickNounTriple() [3]NounEntry {
	for range maxDrawAttempts {
		x, y, z := s.pickAny(), s.pickAny(), s.pickAny()
		if x.Singular != y.Singular && y.Singular != z.Singular && x.Singular != z.Singular {
			return [3]NounEntry{x, y, z}
		}
	}
	// Retries exhausted: take three distinct nouns from one pool.
	p := s.pools[s.rng.IntN(len(s.pools))]
	picked := s.distinctFrom(p, 3)
	return [3]NounEntry{picked[0], picked[1], picked[2]}
}

// PickNounQuadSamePool draws four mutually distinct nouns from a single,
// uniformly chosen pool.
func (s *Sampler) PickNounQuadSamePool() [4]NounEntry {
	p := s.pools[s.rng.IntN(len(s.pools))]
	picked := s.distinctFrom(p, 4)
	return [4]NounEntry{picked[0], picked[1], picked[2], picked[3]}
}

func (s *Sampler) pickAny() NounEntry {
	p := s.pools[s.rng.IntN(len(s.pools))]
	return p.Nouns[s.rng.IntN(len(p.Nouns))]
}

// distinctFrom returns k nouns with distinct singular forms using a partial
// Fisher-Yates shuffle over the pool's indices. NewSampler guarantees the
// pool has enough distinct entries.
func (s *Sampler) distinctFrom(p Pool, k int) []NounEntry {
	idx := make([]int, len(p.Nouns))
	for i := range idx {
		idx[i] = i
	}
	out := make([]NounEntry, 0, k)
	seen := make(map[string]bool, k)
	for i := 0; i < len(idx) && len(out) < k; i++ {
		j := i + s.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		noun := p.Nouns[idx[i]]
		if seen[noun.Singular] {
			continue
		}
		seen[noun.Singular] = true
		out = append(out, noun)
	}
	return out
}

func distinctCount(p Pool) int {
	seen := make(map[string]bool, len(p.Nouns))
	for _, n := range p.Nouns {
		seen[n.Singular] = true
	}
	return len(seen)
}
