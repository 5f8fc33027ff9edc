package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/syllogiz/internal/store"
)

// Stages the learner unlocks by finishing runs well.
const (
	StageMicro   = 1 // micro drills
	StageMacro   = 2 // a micro run at UnlockAccuracy or better
	StageMastery = 3 // a perfect macro block
)

// UnlockAccuracy is the micro accuracy that unlocks StageMacro.
const UnlockAccuracy = 0.8

// progressVersion is the current Progress document version.
const progressVersion = 1

// Progress is the learner's persisted progress. The controller receives it
// through a ProgressLoader and hands it back through a ProgressSaver.
type Progress struct {
	Version              int          `json:"version"`
	SessionsCompleted    map[Mode]int `json:"sessions_completed"`
	BestScore            map[Mode]int `json:"best_score"`
	HighestUnlockedStage int          `json:"highest_unlocked_stage"`
}

// NewProgress returns the progress of a learner who has done nothing yet.
func NewProgress() Progress {
	return Progress{
		Version:              progressVersion,
		SessionsCompleted:    map[Mode]int{},
		BestScore:            map[Mode]int{},
		HighestUnlockedStage: StageMicro,
	}
}

// ProgressLoader reads the learner's progress.
type ProgressLoader func(ctx context.Context) (Progress, error)

// ProgressSaver writes the learner's progress.
type ProgressSaver func(ctx context.Context, p Progress) error

// Apply folds a finished run into the progress.
func (p *Progress) Apply(s Summary) {
	if p.SessionsCompleted == nil {
		p.SessionsCompleted = map[Mode]int{}
	}
	if p.BestScore == nil {
		p.BestScore = map[Mode]int{}
	}
	p.SessionsCompleted[s.Mode]++
	if best, ok := p.BestScore[s.Mode]; !ok || s.Score > best {
		p.BestScore[s.Mode] = s.Score
	}

	stage := StageMicro
	switch {
	case s.Mode == ModeMacro && s.Score == MacroBlockScore(5):
		stage = StageMastery
	case s.Mode == ModeMicro && s.TotalQuestions > 0 &&
		float64(s.Correct)/float64(s.TotalQuestions) >= UnlockAccuracy:
		stage = StageMacro
	}
	p.HighestUnlockedStage = max(p.HighestUnlockedStage, stage)
}

// StoreProgress adapts a store.ProgressRepo to a loader/saver pair. A
// missing document loads as NewProgress.
func StoreProgress(repo store.ProgressRepo) (ProgressLoader, ProgressSaver) {
	load := func(ctx context.Context) (Progress, error) {
		doc, err := repo.LoadProgress(ctx)
		if err != nil {
			return NewProgress(), err
		}
		if doc == nil {
			return NewProgress(), nil
		}
		p := NewProgress()
		if err := json.Unmarshal(doc, &p); err != nil {
			return NewProgress(), fmt.Errorf("decode progress: %w", err)
		}
		if p.HighestUnlockedStage < StageMicro {
			p.HighestUnlockedStage = StageMicro
		}
		return p, nil
	}
	save := func(ctx context.Context, p Progress) error {
		p.Version = progressVersion
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode progress: %w", err)
		}
		return repo.SaveProgress(ctx, doc)
	}
	return load, save
}
