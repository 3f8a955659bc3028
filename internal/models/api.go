package models

// PreviewRequest is the request for an import preview
type PreviewRequest struct {
	Rows   []CsvRow        `json:"rows"`
	Bundle *JsonTextUpload `json:"bundle" validate:"required"`
}

// CommitRequest is the request for committing spreadsheet rows
type CommitRequest struct {
	Rows []CsvRow `json:"rows" validate:"required"`
}

// StatusUpdateRequest is the request for updating a scripture assignment
type StatusUpdateRequest struct {
	Status ScriptureStatus `json:"status" validate:"required,oneof=not_started in_progress completed"`
}

// ApplicableRuleResponse is the response for the applicable grade rule lookup
type ApplicableRuleResponse struct {
	Grade int        `json:"grade"`
	Rule  *GradeRule `json:"rule"`
}

// RuleConflictsResponse is the response for the rule conflict report
type RuleConflictsResponse struct {
	CompetitionYearID string         `json:"competition_year_id"`
	Conflicts         []RuleConflict `json:"conflicts"`
}

// EnrollmentResponse is the response for enrolling one child. Assignment is
// nil when the child has no requirement.
type EnrollmentResponse struct {
	ChildID    string            `json:"child_id"`
	Enrolled   bool              `json:"enrolled"`
	Assignment *AssignmentResult `json:"assignment,omitempty"`
}
