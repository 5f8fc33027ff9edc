package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableQuestions = "syllogism_questions"
	tableSessions  = "syllogism_sessions"
	tableLLM       = "llm_requests"
	tableProgress  = "progress"
	tableSequence  = "global_sequence"
)

var (
	questionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "macro_block_id", Type: field.TypeString, Nullable: true},
		{Name: "stimulus_text", Type: field.TypeString},
		{Name: "conclusion_text", Type: field.TypeString},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "logic_group", Type: field.TypeString},
		{Name: "trick_type", Type: field.TypeString, Nullable: true},
		{Name: "explanation", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	questionsTable = &schema.Table{
		Name:       tableQuestions,
		Columns:    questionColumns,
		PrimaryKey: []*schema.Column{questionColumns[0]},
		Indexes: []*schema.Index{
			{Name: "syllogismquestion_macro_block_id", Columns: []*schema.Column{questionColumns[1]}},
		},
	}

	sessionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "average_time_per_decision", Type: field.TypeFloat64},
		{Name: "elapsed_seconds", Type: field.TypeFloat64},
		{Name: "categorical_accuracy", Type: field.TypeFloat64, Nullable: true},
		{Name: "relative_accuracy", Type: field.TypeFloat64, Nullable: true},
		{Name: "majority_accuracy", Type: field.TypeFloat64, Nullable: true},
		{Name: "complex_accuracy", Type: field.TypeFloat64, Nullable: true},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0]},
		Indexes: []*schema.Index{
			{Name: "syllogismsession_mode", Columns: []*schema.Column{sessionColumns[4]}},
		},
	}

	llmColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Nullable: true},
		{Name: "session_id", Type: field.TypeString, Nullable: true},
	}
	llmTable = &schema.Table{
		Name:       tableLLM,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_session_id", Columns: []*schema.Column{llmColumns[13]}},
		},
	}

	progressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "document", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	progressTable = &schema.Table{
		Name:       tableProgress,
		Columns:    progressColumns,
		PrimaryKey: []*schema.Column{progressColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		questionsTable,
		sessionsTable,
		llmTable,
		progressTable,
		sequenceTable,
	}
)
