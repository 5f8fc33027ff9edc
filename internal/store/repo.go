package store

import (
	"context"
	"time"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

// DefaultBatchSize is the number of rows written per insert transaction.
const DefaultBatchSize = 100

// QueryOpts configures record queries with filtering and pagination.
type QueryOpts struct {
	Limit  int    // max results (0 = unlimited)
	After  int64  // sequence > After
	Before int64  // sequence < Before
	Mode   string // only records of this mode ("" = all)

	// LLM event filters.
	Purpose   string
	SessionID string
}

// QuestionRepo is the question bank.
type QuestionRepo interface {
	// InsertBatch writes questions in chunks of batchSize rows, one
	// transaction per chunk. It stops at the first failing chunk and returns
	// the number of rows committed before it.
	InsertBatch(ctx context.Context, qs []syllogism.Question, batchSize int) (int, error)

	// SampleMicro returns up to limit questions in no particular order.
	SampleMicro(ctx context.Context, limit int) ([]syllogism.Question, error)

	// SampleMacro returns up to limit questions that carry a block id,
	// drawn from randomly chosen complete blocks.
	SampleMacro(ctx context.Context, limit int) ([]syllogism.Question, error)

	// Count returns the number of questions, and how many belong to
	// five-question blocks.
	Count(ctx context.Context) (total, inBlocks int, err error)

	// DeleteAll removes every question.
	DeleteAll(ctx context.Context) error
}

// SummaryRecord is one finished drill session. A nil accuracy means the
// session had no answered question in that logic group.
type SummaryRecord struct {
	ID                     int
	Sequence               int64
	Timestamp              time.Time
	SessionID              string
	Mode                   string
	Score                  int
	Correct                int
	TotalQuestions         int
	AverageTimePerDecision float64
	ElapsedSeconds         float64
	CategoricalAccuracy    *float64
	RelativeAccuracy       *float64
	MajorityAccuracy       *float64
	ComplexAccuracy        *float64
}

// ModeStats aggregates summaries of one mode. Accuracy averages skip
// sessions without data for the group and stay nil if none had any.
type ModeStats struct {
	Mode                string
	Sessions            int
	BestScore           int
	AverageScore        float64
	AverageTime         float64
	CategoricalAccuracy *float64
	RelativeAccuracy    *float64
	MajorityAccuracy    *float64
	ComplexAccuracy     *float64
}

// SummaryRepo is the downstream sink for finished sessions.
type SummaryRepo interface {
	// AppendSummary stores a finished session. Sequence and Timestamp are
	// assigned by the store.
	AppendSummary(ctx context.Context, rec SummaryRecord) error

	// QuerySummaries returns summaries newest first.
	QuerySummaries(ctx context.Context, opts QueryOpts) ([]SummaryRecord, error)

	// ModeStats returns one aggregate per mode that has sessions.
	ModeStats(ctx context.Context) ([]ModeStats, error)
}

// ProgressRepo persists the learner's progress document.
type ProgressRepo interface {
	// LoadProgress returns the stored document, or nil if none exists.
	LoadProgress(ctx context.Context) ([]byte, error)

	// SaveProgress replaces the stored document.
	SaveProgress(ctx context.Context, doc []byte) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string // drill run the call was made for, if any
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsageStats aggregates LLM requests by purpose.
type LLMUsageStats struct {
	Purpose      string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMModelUsage aggregates token usage per model for cost estimates.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records LLM request events and reads them back.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsageByPurpose aggregates recorded requests per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token counts per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// QueryLLMEvents returns events newest first. Request and response
	// bodies are left empty; use GetLLMEvent for those.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event with its bodies, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
}
