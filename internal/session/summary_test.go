package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

func boolp(v bool) *bool { return &v }

func TestMacroBlockScore(t *testing.T) {
	tests := []struct {
		correct int
		want    int
	}{
		{5, 2}, {4, 1}, {3, 0}, {0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MacroBlockScore(tt.correct), "correct=%d", tt.correct)
	}
}

func TestGroupAccuracyNoData(t *testing.T) {
	qs := fullBlock("b1")
	acc := GroupAccuracy(qs, make([]*bool, len(qs)))
	require.Len(t, acc, len(syllogism.AllGroups))
	for _, g := range syllogism.AllGroups {
		assert.Nil(t, acc[g], "group %s", g)
	}
}

func TestGroupAccuracyCountsAnsweredOnly(t *testing.T) {
	qs := fullBlock("b1")
	// Two relative questions: index 1 (false) and index 2 (true).
	answers := []*bool{nil, boolp(false), boolp(false), nil, nil}
	acc := GroupAccuracy(qs, answers)

	require.NotNil(t, acc[syllogism.GroupRelative])
	assert.InDelta(t, 0.5, *acc[syllogism.GroupRelative], 1e-9)
	assert.Nil(t, acc[syllogism.GroupCategorical])
}

func TestTrickMissesOrdering(t *testing.T) {
	qs := microRows(6)
	qs[0].TrickType = syllogism.TrickConverseFallacy
	qs[1].TrickType = syllogism.TrickInverseFallacy
	qs[2].TrickType = syllogism.TrickInverseFallacy
	answers := make([]*bool, len(qs))
	for i, q := range qs[:3] {
		answers[i] = boolp(!q.IsCorrect)
	}
	answers[3] = boolp(qs[3].IsCorrect)

	misses := TrickMisses(qs, answers)
	require.Len(t, misses, 2)
	assert.Equal(t, syllogism.TrickInverseFallacy, misses[0].Trick)
	assert.Equal(t, 2, misses[0].Misses)
	assert.Equal(t, syllogism.TrickConverseFallacy, misses[1].Trick)
}

func TestBuildSummaryFallsBackToElapsed(t *testing.T) {
	st := &State{
		Mode:      ModeMicro,
		Questions: microRows(4),
		Answers:   make([]*bool, 4),
		Elapsed:   8 * time.Second,
	}
	sum := BuildSummary(st)
	assert.Equal(t, 0, sum.Score)
	assert.InDelta(t, 2.0, sum.AverageTimePerDecision, 1e-9)
	assert.InDelta(t, 8.0, sum.ElapsedSeconds, 1e-9)
}

func TestProgressApply(t *testing.T) {
	p := NewProgress()

	p.Apply(Summary{Mode: ModeMicro, Score: 6, Correct: 6, TotalQuestions: 10})
	assert.Equal(t, StageMicro, p.HighestUnlockedStage)

	p.Apply(Summary{Mode: ModeMicro, Score: 8, Correct: 8, TotalQuestions: 10})
	assert.Equal(t, StageMacro, p.HighestUnlockedStage)
	assert.Equal(t, 8, p.BestScore[ModeMicro])

	p.Apply(Summary{Mode: ModeMicro, Score: 3, Correct: 3, TotalQuestions: 10})
	assert.Equal(t, 8, p.BestScore[ModeMicro])
	assert.Equal(t, StageMacro, p.HighestUnlockedStage)
	assert.Equal(t, 3, p.SessionsCompleted[ModeMicro])

	p.Apply(Summary{Mode: ModeMacro, Score: 2, Correct: 5, TotalQuestions: 5})
	assert.Equal(t, StageMastery, p.HighestUnlockedStage)
}

type memProgressRepo struct{ doc []byte }

func (m *memProgressRepo) LoadProgress(context.Context) ([]byte, error) { return m.doc, nil }
func (m *memProgressRepo) SaveProgress(_ context.Context, doc []byte) error {
	m.doc = doc
	return nil
}

func TestStoreProgressRoundTrip(t *testing.T) {
	repo := &memProgressRepo{}
	load, save := StoreProgress(repo)
	ctx := context.Background()

	p, err := load(ctx)
	require.NoError(t, err)
	assert.Equal(t, NewProgress(), p)

	p.Apply(Summary{Mode: ModeMacro, Score: 1, Correct: 4, TotalQuestions: 5})
	require.NoError(t, save(ctx, p))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(repo.doc, &raw))
	assert.EqualValues(t, 1, raw["version"])

	got, err := load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestStoreProgressCorruptDocument(t *testing.T) {
	load, _ := StoreProgress(&memProgressRepo{doc: []byte("{not json")})
	p, err := load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, NewProgress(), p)
}

func TestUserMessageHidesDetails(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(ErrNoQuestions), "No questions available")
	assert.Equal(t, "Could not load questions. Please try again.", UserMessage(assert.AnError))
}
