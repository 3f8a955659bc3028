package models

import "time"

// ScriptureStatus is the memorization progress of one assigned scripture
type ScriptureStatus string

const (
	ScriptureNotStarted ScriptureStatus = "not_started"
	ScriptureInProgress ScriptureStatus = "in_progress"
	ScriptureCompleted  ScriptureStatus = "completed"
)

// Valid reports whether s is a known status
func (s ScriptureStatus) Valid() bool {
	switch s {
	case ScriptureNotStarted, ScriptureInProgress, ScriptureCompleted:
		return true
	}
	return false
}

// EssayStatus is the submission state of an assigned essay
type EssayStatus string

const (
	EssayAssigned  EssayStatus = "assigned"
	EssaySubmitted EssayStatus = "submitted"
)

// StudentScripture is one scripture obligation for a child in a year
type StudentScripture struct {
	ID                string          `json:"id" db:"id"`
	ChildID           string          `json:"child_id" db:"child_id"`
	CompetitionYearID string          `json:"competition_year_id" db:"competition_year_id"`
	ScriptureID       string          `json:"scripture_id" db:"scripture_id"`
	Status            ScriptureStatus `json:"status" db:"status"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// StudentEssay is the essay obligation for a child in a year
type StudentEssay struct {
	ID                string      `json:"id" db:"id"`
	ChildID           string      `json:"child_id" db:"child_id"`
	CompetitionYearID string      `json:"competition_year_id" db:"competition_year_id"`
	EssayPromptID     string      `json:"essay_prompt_id" db:"essay_prompt_id"`
	Status            EssayStatus `json:"status" db:"status"`
	SubmittedAt       *time.Time  `json:"submitted_at,omitempty" db:"submitted_at"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// RequirementSource tells which mechanism produced a requirement
type RequirementSource string

const (
	SourceDivision  RequirementSource = "division"
	SourceGradeRule RequirementSource = "grade_rule"
)

// RuleConflict describes two rules whose grade ranges overlap
type RuleConflict struct {
	Source   RequirementSource `json:"source"`
	Type     RuleType          `json:"type,omitempty"`
	FirstID  string            `json:"first_id"`
	SecondID string            `json:"second_id"`
	MinGrade int               `json:"min_grade"`
	MaxGrade int               `json:"max_grade"`
}

// Requirement is what a child owes for a competition year
type Requirement struct {
	Source       RequirementSource `json:"source"`
	Type         RuleType          `json:"type"`
	TargetCount  int               `json:"target_count"`
	Instructions string            `json:"instructions,omitempty"`
	Division     *Division         `json:"division,omitempty"`
	GradeRule    *GradeRule        `json:"grade_rule,omitempty"`
	EssayPrompt  *EssayPrompt      `json:"essay_prompt,omitempty"`
	Conflicts    []RuleConflict    `json:"conflicts,omitempty"`
}

// AssignmentResult is the outcome of enrolling one child
type AssignmentResult struct {
	ChildID           string             `json:"child_id"`
	CompetitionYearID string             `json:"competition_year_id"`
	Grade             int                `json:"grade"`
	Requirement       Requirement        `json:"requirement"`
	Scriptures        []StudentScripture `json:"scriptures,omitempty"`
	Essay             *StudentEssay      `json:"essay,omitempty"`
	Created           int                `json:"created"`
	Existing          int                `json:"existing"`
	Extra             int                `json:"extra"`
	Shortfall         int                `json:"shortfall"`
}

// BulkEnrollmentResult summarizes enrolling every active child in a year
type BulkEnrollmentResult struct {
	CompetitionYearID string   `json:"competition_year_id"`
	Enrolled          int      `json:"enrolled"`
	Skipped           int      `json:"skipped"`
	Created           int      `json:"created"`
	SkippedChildIDs   []string `json:"skipped_child_ids,omitempty"`
	// Ambiguous children match more than one rule under strict rules
	Ambiguous         int      `json:"ambiguous"`
	AmbiguousChildIDs []string `json:"ambiguous_child_ids,omitempty"`
}
