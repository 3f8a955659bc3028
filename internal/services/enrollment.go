package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bible-bee-api/internal/metrics"
	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
	"go.uber.org/zap"
)

// EnrollmentService creates and tracks per-child Bible Bee obligations
type EnrollmentService struct {
	store    repository.Store
	resolver *RuleResolver
	logger   *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(store repository.Store, resolver *RuleResolver, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// EnrollChildInBibleBee assigns a child the obligations of their grade for a
// competition year. It is safe to call repeatedly: missing rows are added,
// existing rows keep their progress and rows outside the desired set are left
// alone. It returns nil when the child has no requirement.
func (s *EnrollmentService) EnrollChildInBibleBee(ctx context.Context, childID, competitionYearID string) (*models.AssignmentResult, error) {
	child, err := s.store.Children.Get(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, fmt.Errorf("child %s: %w", childID, ErrChildNotFound)
	}
	year, err := s.store.Years.Get(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, fmt.Errorf("competition year %s: %w", competitionYearID, ErrCompetitionYearNotFound)
	}

	log := s.logger.With(zap.String("child_id", childID), zap.String("competition_year_id", competitionYearID))

	grade, ok := ParseGrade(child.Grade)
	if !ok {
		log.Warn("child grade not recognized", zap.String("grade", child.Grade))
		return nil, nil
	}

	req, err := s.resolver.ResolveRequirement(ctx, competitionYearID, grade)
	if err != nil {
		return nil, err
	}
	if req == nil {
		log.Info("no rule for grade", zap.Int("grade", grade))
		return nil, nil
	}
	for _, c := range req.Conflicts {
		log.Warn("overlapping rules", zap.String("source", string(c.Source)),
			zap.String("first_id", c.FirstID), zap.String("second_id", c.SecondID))
	}

	result := &models.AssignmentResult{
		ChildID:           childID,
		CompetitionYearID: competitionYearID,
		Grade:             grade,
		Requirement:       *req,
	}
	if req.Type == models.RuleTypeEssay {
		return s.assignEssay(ctx, log, result)
	}
	return s.assignScriptures(ctx, log, result)
}

func (s *EnrollmentService) assignScriptures(ctx context.Context, log *zap.Logger, result *models.AssignmentResult) (*models.AssignmentResult, error) {
	scriptures, err := s.store.Scriptures.ListByYear(ctx, result.CompetitionYearID)
	if err != nil {
		return nil, err
	}
	if len(scriptures) == 0 {
		log.Warn("competition year has no scriptures")
		return nil, nil
	}

	target := max(result.Requirement.TargetCount, 0)
	desired := scriptures[:min(target, len(scriptures))]
	if short := target - len(desired); short > 0 {
		result.Shortfall = short
		log.Warn("not enough scriptures for requirement", zap.Int("target", target), zap.Int("available", len(scriptures)))
	}

	existing, err := s.store.Assignments.ListScriptures(ctx, result.ChildID, result.CompetitionYearID)
	if err != nil {
		return nil, err
	}
	byScripture := make(map[string]models.StudentScripture, len(existing))
	for _, a := range existing {
		byScripture[a.ScriptureID] = a
	}

	wanted := make(map[string]bool, len(desired))
	result.Scriptures = make([]models.StudentScripture, 0, len(desired))
	for _, sc := range desired {
		wanted[sc.ID] = true
		if a, ok := byScripture[sc.ID]; ok {
			result.Scriptures = append(result.Scriptures, a)
			result.Existing++
			continue
		}

		a := models.StudentScripture{
			ChildID:           result.ChildID,
			CompetitionYearID: result.CompetitionYearID,
			ScriptureID:       sc.ID,
			Status:            models.ScriptureNotStarted,
		}
		created, err := s.store.Assignments.AddScripture(ctx, &a)
		if err != nil {
			return nil, err
		}
		if !created {
			// written by a concurrent run since the list above
			current, err := s.findScripture(ctx, result.ChildID, result.CompetitionYearID, sc.ID)
			if err != nil {
				return nil, err
			}
			if current != nil {
				a = *current
			}
			result.Existing++
		} else {
			result.Created++
		}
		result.Scriptures = append(result.Scriptures, a)
	}

	for _, a := range existing {
		if !wanted[a.ScriptureID] {
			result.Extra++
		}
	}

	metrics.RecordAssignment("scripture", "created", result.Created)
	metrics.RecordAssignment("scripture", "existing", result.Existing)
	log.Info("scriptures assigned",
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("extra", result.Extra),
		zap.Int("shortfall", result.Shortfall))
	return result, nil
}

func (s *EnrollmentService) findScripture(ctx context.Context, childID, competitionYearID, scriptureID string) (*models.StudentScripture, error) {
	rows, err := s.store.Assignments.ListScriptures(ctx, childID, competitionYearID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ScriptureID == scriptureID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (s *EnrollmentService) assignEssay(ctx context.Context, log *zap.Logger, result *models.AssignmentResult) (*models.AssignmentResult, error) {
	prompt := result.Requirement.EssayPrompt
	if prompt == nil {
		log.Warn("essay requirement has no prompt")
		return nil, nil
	}

	essay := models.StudentEssay{
		ChildID:           result.ChildID,
		CompetitionYearID: result.CompetitionYearID,
		EssayPromptID:     prompt.ID,
		Status:            models.EssayAssigned,
	}
	created, err := s.store.Assignments.AddEssay(ctx, &essay)
	if err != nil {
		return nil, err
	}
	if created {
		result.Created = 1
		metrics.RecordAssignment("essay", "created", 1)
	} else {
		essays, err := s.store.Assignments.ListEssays(ctx, result.ChildID, result.CompetitionYearID)
		if err != nil {
			return nil, err
		}
		for i := range essays {
			if essays[i].EssayPromptID == prompt.ID {
				essay = essays[i]
				break
			}
		}
		result.Existing = 1
		metrics.RecordAssignment("essay", "existing", 1)
	}
	result.Essay = &essay

	log.Info("essay assigned", zap.String("essay_prompt_id", prompt.ID), zap.Bool("created", created))
	return result, nil
}

// EnrollCompetitionYear enrolls every active child in a competition year.
// It stops at the first storage error; rows written before it are kept and a
// re-run picks up from there.
func (s *EnrollmentService) EnrollCompetitionYear(ctx context.Context, competitionYearID string) (*models.BulkEnrollmentResult, error) {
	year, err := s.store.Years.Get(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, fmt.Errorf("competition year %s: %w", competitionYearID, ErrCompetitionYearNotFound)
	}

	children, err := s.store.Children.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	bulk := &models.BulkEnrollmentResult{CompetitionYearID: competitionYearID}
	for _, child := range children {
		res, err := s.EnrollChildInBibleBee(ctx, child.ID, competitionYearID)
		if errors.Is(err, ErrAmbiguousRule) {
			bulk.Ambiguous++
			bulk.AmbiguousChildIDs = append(bulk.AmbiguousChildIDs, child.ID)
			metrics.RecordEnrollment("ambiguous")
			s.logger.Warn("child matches more than one rule",
				zap.String("child_id", child.ID),
				zap.String("grade", child.Grade))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("enroll child %s: %w", child.ID, err)
		}
		if res == nil {
			bulk.Skipped++
			bulk.SkippedChildIDs = append(bulk.SkippedChildIDs, child.ID)
			metrics.RecordEnrollment("skipped")
			continue
		}
		bulk.Enrolled++
		bulk.Created += res.Created
		metrics.RecordEnrollment("enrolled")
	}

	s.logger.Info("competition year enrolled",
		zap.String("competition_year_id", competitionYearID),
		zap.Int("enrolled", bulk.Enrolled),
		zap.Int("skipped", bulk.Skipped),
		zap.Int("ambiguous", bulk.Ambiguous),
		zap.Int("created", bulk.Created))
	return bulk, nil
}

// UpdateScriptureStatus records a child's progress on one scripture
func (s *EnrollmentService) UpdateScriptureStatus(ctx context.Context, assignmentID string, status models.ScriptureStatus) (*models.StudentScripture, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	a, err := s.store.Assignments.GetScripture(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("student scripture %s: %w", assignmentID, ErrAssignmentNotFound)
	}
	if err := s.store.Assignments.UpdateScriptureStatus(ctx, assignmentID, status); err != nil {
		return nil, err
	}
	return s.store.Assignments.GetScripture(ctx, assignmentID)
}

// SubmitEssay marks an essay as submitted. Submitting twice keeps the first
// submission time.
func (s *EnrollmentService) SubmitEssay(ctx context.Context, essayID string) (*models.StudentEssay, error) {
	e, err := s.store.Assignments.GetEssay(ctx, essayID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("student essay %s: %w", essayID, ErrAssignmentNotFound)
	}
	if e.Status == models.EssaySubmitted {
		return e, nil
	}
	if err := s.store.Assignments.MarkEssaySubmitted(ctx, essayID); err != nil {
		return nil, err
	}
	return s.store.Assignments.GetEssay(ctx, essayID)
}
