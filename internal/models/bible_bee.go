package models

import "time"

// RuleType is the kind of obligation a rule produces
type RuleType string

const (
	RuleTypeScripture RuleType = "scripture"
	RuleTypeEssay     RuleType = "essay"
)

// Valid reports whether t is a known rule type
func (t RuleType) Valid() bool {
	return t == RuleTypeScripture || t == RuleTypeEssay
}

// CompetitionYear identifies one annual Bible Bee cycle
type CompetitionYear struct {
	ID          string    `json:"id" db:"id"`
	Year        int       `json:"year" db:"year"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// GradeRule maps an inclusive grade range to a requirement
type GradeRule struct {
	ID                string    `json:"id" db:"id"`
	CompetitionYearID string    `json:"competition_year_id" db:"competition_year_id"`
	MinGrade          int       `json:"min_grade" db:"min_grade"`
	MaxGrade          int       `json:"max_grade" db:"max_grade"`
	Type              RuleType  `json:"type" db:"type"`
	TargetCount       int       `json:"target_count" db:"target_count"`
	Instructions      string    `json:"instructions,omitempty" db:"instructions"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Contains reports whether grade falls inside the rule's range
func (r GradeRule) Contains(grade int) bool {
	return grade >= r.MinGrade && grade <= r.MaxGrade
}

// Division is a grade-banded group within a competition year
type Division struct {
	ID                string    `json:"id" db:"id"`
	CompetitionYearID string    `json:"competition_year_id" db:"competition_year_id"`
	Name              string    `json:"name" db:"name"`
	MinGrade          int       `json:"min_grade" db:"min_grade"`
	MaxGrade          int       `json:"max_grade" db:"max_grade"`
	MinimumRequired   int       `json:"minimum_required" db:"minimum_required"`
	Instructions      string    `json:"instructions,omitempty" db:"instructions"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Contains reports whether grade falls inside the division's range
func (d Division) Contains(grade int) bool {
	return grade >= d.MinGrade && grade <= d.MaxGrade
}

// EssayPrompt is the essay obligation for a division, or for a whole year
// when DivisionID is nil
type EssayPrompt struct {
	ID                string     `json:"id" db:"id"`
	CompetitionYearID string     `json:"competition_year_id" db:"competition_year_id"`
	DivisionID        *string    `json:"division_id,omitempty" db:"division_id"`
	Title             string     `json:"title" db:"title"`
	Prompt            string     `json:"prompt" db:"prompt"`
	Instructions      string     `json:"instructions,omitempty" db:"instructions"`
	DueDate           *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// Scripture is a canonical memorization unit for a competition year.
// ScriptureOrder is display order only.
type Scripture struct {
	ID                  string            `json:"id"`
	CompetitionYearID   string            `json:"competition_year_id"`
	Reference           string            `json:"reference"`
	NormalizedReference string            `json:"normalized_reference"`
	Text                string            `json:"text"`
	Translation         string            `json:"translation"`
	ScriptureOrder      int               `json:"scripture_order"`
	Texts               map[string]string `json:"texts,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Child is the registration record; only ID and Grade are read here
type Child struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Grade     string    `json:"grade" db:"grade"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
