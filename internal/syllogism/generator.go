package syllogism

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/abhisek/syllogiz/internal/vocab"
)

// maxBlockAttempts bounds how often a block is rebuilt after a retryable
// validation failure.
const maxBlockAttempts = 3

// Config controls a Generator.
type Config struct {
	// Pools are the vocabulary pools nouns are drawn from.
	Pools []vocab.Pool

	// Validators run in order on every block; the first failure stops the
	// pipeline for that block.
	Validators []Validator
}

// DefaultConfig returns the built-in pools and the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Pools:      vocab.DefaultPools(),
		Validators: DefaultValidators(),
	}
}

// Generator produces question batches from the blueprints. It is not safe
// for concurrent use; each authoring run owns one.
type Generator struct {
	rng        *rand.Rand
	ids        io.Reader
	sampler    *vocab.Sampler
	builder    *Builder
	validators []Validator
}

// New returns a Generator with an unpredictable seed.
func New(cfg Config) (*Generator, error) {
	return NewSeeded(cfg, rand.Uint64())
}

// NewSeeded returns a Generator whose output, including ids, is fully
// determined by seed.
func NewSeeded(cfg Config, seed uint64) (*Generator, error) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	sampler, err := vocab.NewSampler(cfg.Pools, rng)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	return &Generator{
		rng:        rng,
		ids:        src,
		sampler:    sampler,
		builder:    NewBuilder(rng),
		validators: cfg.Validators,
	}, nil
}

// GenerateMicroBatch returns count independent questions. Each comes from a
// randomly chosen two-premise blueprint, keeps one of its conclusions and
// gets a block id of its own.
func (g *Generator) GenerateMicroBatch(count int) ([]Question, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", count)
	}
	out := make([]Question, 0, count)
	for range count {
		bp := MicroBlueprints[g.rng.IntN(len(MicroBlueprints))]
		block, err := g.build(func() Block { return bp.Build(g.builder, g.sampler.PickNounTriple()) })
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bp.Name, err)
		}
		c := block.Conclusions[g.rng.IntN(len(block.Conclusions))]
		q, err := g.question(c, block.Stimulus, "")
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// GenerateMacroBatch returns blockCount macro-chain blocks, five questions
// per block, each block sharing one stimulus and one block id.
func (g *Generator) GenerateMacroBatch(blockCount int) ([]Question, error) {
	if blockCount < 0 {
		return nil, fmt.Errorf("block count must be non-negative, got %d", blockCount)
	}
	out := make([]Question, 0, blockCount*ConclusionsPerBlock)
	for range blockCount {
		block, err := g.build(func() Block { return MacroChain(g.builder, g.sampler.PickNounQuadSamePool()) })
		if err != nil {
			return nil, fmt.Errorf("%s: %w", BlueprintMacroChain, err)
		}
		blockID, err := g.newID()
		if err != nil {
			return nil, err
		}
		for _, c := range block.Conclusions {
			q, err := g.question(c, block.Stimulus, blockID)
			if err != nil {
				return nil, err
			}
			out = append(out, q)
		}
	}
	return out, nil
}

// build runs construct and the validator chain, rebuilding on retryable failures.
func (g *Generator) build(construct func() Block) (Block, error) {
	var lastErr *ValidationError
	for range maxBlockAttempts {
		block := construct()
		lastErr = g.validate(&block)
		if lastErr == nil {
			return block, nil
		}
		if !lastErr.Retryable {
			return Block{}, lastErr
		}
	}
	return Block{}, fmt.Errorf("giving up after %d attempts: %w", maxBlockAttempts, lastErr)
}

func (g *Generator) validate(b *Block) *ValidationError {
	for _, v := range g.validators {
		if err := v.Validate(b); err != nil {
			return err
		}
	}
	return nil
}

// question turns a conclusion into a bank row. An empty blockID allocates a
// fresh singleton block.
func (g *Generator) question(c Conclusion, stimulus, blockID string) (Question, error) {
	id, err := g.newID()
	if err != nil {
		return Question{}, err
	}
	if blockID == "" {
		if blockID, err = g.newID(); err != nil {
			return Question{}, err
		}
	}
	return Question{
		ID:             id,
		MacroBlockID:   blockID,
		StimulusText:   stimulus,
		ConclusionText: c.Text,
		IsCorrect:      c.IsCorrect,
		LogicGroup:     c.Group,
		TrickType:      c.Trick,
		Explanation:    c.Explanation,
	}, nil
}

func (g *Generator) newID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}
