package session

import (
	"maps"
	"sort"

	"github.com/abhisek/syllogiz/internal/store"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

// Summary holds the outcome of a finished run.
type Summary struct {
	SessionID      string
	Mode           Mode
	Score          int
	Correct        int
	TotalQuestions int

	// AverageTimePerDecision is in seconds.
	AverageTimePerDecision float64
	ElapsedSeconds         float64

	// GroupAccuracy has an entry for every logic group; nil means the run
	// had no answered question in that group.
	GroupAccuracy map[syllogism.LogicGroup]*float64

	// TrickMisses counts wrong judgements per trick type, most missed first.
	TrickMisses []TrickMiss

	// Persisted reports whether the summary reached the sink.
	Persisted bool
}

// TrickMiss is one row of the missed-pattern breakdown.
type TrickMiss struct {
	Trick  syllogism.TrickType
	Group  syllogism.LogicGroup
	Misses int
}

func (s Summary) clone() Summary {
	s.GroupAccuracy = maps.Clone(s.GroupAccuracy)
	s.TrickMisses = append([]TrickMiss(nil), s.TrickMisses...)
	return s
}

// MacroBlockScore converts correct judgements in a five-conclusion block to
// points: all five earn 2, four earn 1, anything less earns nothing.
func MacroBlockScore(correct int) int {
	switch {
	case correct >= 5:
		return 2
	case correct == 4:
		return 1
	}
	return 0
}

// BuildSummary reduces a run to its summary. It reads the state only.
func BuildSummary(st *State) Summary {
	total := len(st.Questions)
	correct := 0
	for i, q := range st.Questions {
		if a := st.Answers[i]; a != nil && *a == q.IsCorrect {
			correct++
		}
	}

	score := correct
	if st.Mode == ModeMacro && total == syllogism.ConclusionsPerBlock {
		score = MacroBlockScore(correct)
	}

	return Summary{
		SessionID:              st.SessionID,
		Mode:                   st.Mode,
		Score:                  score,
		Correct:                correct,
		TotalQuestions:         total,
		AverageTimePerDecision: averageDecision(st, total),
		ElapsedSeconds:         st.Elapsed.Seconds(),
		GroupAccuracy:          GroupAccuracy(st.Questions, st.Answers),
		TrickMisses:            TrickMisses(st.Questions, st.Answers),
	}
}

// averageDecision is the mean recorded latency, or elapsed time spread over
// the questions when nothing was recorded.
func averageDecision(st *State, total int) float64 {
	var sum float64
	n := 0
	for i, a := range st.Answers {
		if a == nil || i >= len(st.Latencies) {
			continue
		}
		sum += st.Latencies[i].Seconds()
		n++
	}
	if n > 0 {
		return sum / float64(n)
	}
	if total == 0 {
		return 0
	}
	return st.Elapsed.Seconds() / float64(total)
}

// GroupAccuracy computes correct/answered per logic group. Groups without an
// answered question map to nil.
func GroupAccuracy(qs []syllogism.Question, answers []*bool) map[syllogism.LogicGroup]*float64 {
	answered := map[syllogism.LogicGroup]int{}
	correct := map[syllogism.LogicGroup]int{}
	for i, q := range qs {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		answered[q.LogicGroup]++
		if *answers[i] == q.IsCorrect {
			correct[q.LogicGroup]++
		}
	}

	out := make(map[syllogism.LogicGroup]*float64, len(syllogism.AllGroups))
	for _, g := range syllogism.AllGroups {
		if answered[g] == 0 {
			out[g] = nil
			continue
		}
		acc := float64(correct[g]) / float64(answered[g])
		out[g] = &acc
	}
	return out
}

// TrickMisses lists trick types answered wrongly, most frequent first.
func TrickMisses(qs []syllogism.Question, answers []*bool) []TrickMiss {
	counts := map[syllogism.TrickType]*TrickMiss{}
	for i, q := range qs {
		if i >= len(answers) || answers[i] == nil || *answers[i] == q.IsCorrect || q.TrickType == "" {
			continue
		}
		m, ok := counts[q.TrickType]
		if !ok {
			m = &TrickMiss{Trick: q.TrickType, Group: q.LogicGroup}
			counts[q.TrickType] = m
		}
		m.Misses++
	}

	out := make([]TrickMiss, 0, len(counts))
	for _, m := range counts {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Misses != out[j].Misses {
			return out[i].Misses > out[j].Misses
		}
		return out[i].Trick < out[j].Trick
	})
	return out
}

// Record converts the summary to the downstream row shape.
func (s Summary) Record() store.SummaryRecord {
	return store.SummaryRecord{
		SessionID:              s.SessionID,
		Mode:                   string(s.Mode),
		Score:                  s.Score,
		Correct:                s.Correct,
		TotalQuestions:         s.TotalQuestions,
		AverageTimePerDecision: s.AverageTimePerDecision,
		ElapsedSeconds:         s.ElapsedSeconds,
		CategoricalAccuracy:    s.GroupAccuracy[syllogism.GroupCategorical],
		RelativeAccuracy:       s.GroupAccuracy[syllogism.GroupRelative],
		MajorityAccuracy:       s.GroupAccuracy[syllogism.GroupMajority],
		ComplexAccuracy:        s.GroupAccuracy[syllogism.GroupComplex],
	}
}
