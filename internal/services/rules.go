package services

import (
	"context"
	"fmt"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/repository"
)

// RuleResolver decides what a child of a given grade owes for a year
type RuleResolver struct {
	years  repository.CompetitionYearRepository
	rules  repository.RuleRepository
	strict bool
}

// NewRuleResolver creates a rule resolver. With strict set, a grade matched
// by two rules of the same kind is an error instead of a reported conflict.
func NewRuleResolver(years repository.CompetitionYearRepository, rules repository.RuleRepository, strict bool) *RuleResolver {
	return &RuleResolver{
		years:  years,
		rules:  rules,
		strict: strict,
	}
}

// GetApplicableGradeRule returns the grade rule of ruleType covering grade,
// or nil when none does. Rules are tried in (min_grade, max_grade, id) order
// and the first match wins. A nil ruleType prefers a scripture rule to an
// essay rule; rules of different types never conflict.
func (r *RuleResolver) GetApplicableGradeRule(ctx context.Context, competitionYearID string, grade int, ruleType *models.RuleType) (*models.GradeRule, error) {
	if err := r.requireYear(ctx, competitionYearID); err != nil {
		return nil, err
	}
	rules, err := r.rules.ListGradeRules(ctx, competitionYearID, ruleType)
	if err != nil {
		return nil, err
	}

	types := []models.RuleType{models.RuleTypeScripture, models.RuleTypeEssay}
	if ruleType != nil {
		types = []models.RuleType{*ruleType}
	}
	for _, t := range types {
		rule, conflicts := firstGradeRule(ofType(rules, t), grade)
		if rule == nil {
			continue
		}
		if r.strict && len(conflicts) > 0 {
			return nil, fmt.Errorf("grade %d: %w", grade, ErrAmbiguousRule)
		}
		return rule, nil
	}
	return nil, nil
}

// ResolveRequirement returns the requirement for grade, or nil when no
// division or grade rule covers it. Divisions take precedence over grade
// rules; among grade rules a scripture rule is preferred to an essay rule.
func (r *RuleResolver) ResolveRequirement(ctx context.Context, competitionYearID string, grade int) (*models.Requirement, error) {
	divisions, err := r.rules.ListDivisions(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}

	var prompts []models.EssayPrompt
	loadPrompts := func() error {
		if prompts != nil {
			return nil
		}
		prompts, err = r.rules.ListEssayPrompts(ctx, competitionYearID)
		return err
	}

	if div, conflicts := firstDivision(divisions, grade); div != nil {
		if r.strict && len(conflicts) > 0 {
			return nil, fmt.Errorf("grade %d: %w", grade, ErrAmbiguousRule)
		}
		if err := loadPrompts(); err != nil {
			return nil, err
		}
		req := &models.Requirement{
			Source:       models.SourceDivision,
			Type:         models.RuleTypeScripture,
			TargetCount:  div.MinimumRequired,
			Instructions: div.Instructions,
			Division:     div,
			Conflicts:    conflicts,
		}
		if p := divisionPrompt(prompts, div.ID); p != nil {
			req.Type = models.RuleTypeEssay
			req.TargetCount = 1
			req.EssayPrompt = p
			if p.Instructions != "" {
				req.Instructions = p.Instructions
			}
		}
		return req, nil
	}

	rules, err := r.rules.ListGradeRules(ctx, competitionYearID, nil)
	if err != nil {
		return nil, err
	}
	for _, t := range []models.RuleType{models.RuleTypeScripture, models.RuleTypeEssay} {
		rule, conflicts := firstGradeRule(ofType(rules, t), grade)
		if rule == nil {
			continue
		}
		if r.strict && len(conflicts) > 0 {
			return nil, fmt.Errorf("grade %d: %w", grade, ErrAmbiguousRule)
		}
		req := &models.Requirement{
			Source:       models.SourceGradeRule,
			Type:         t,
			TargetCount:  rule.TargetCount,
			Instructions: rule.Instructions,
			GradeRule:    rule,
			Conflicts:    conflicts,
		}
		if t == models.RuleTypeEssay {
			if err := loadPrompts(); err != nil {
				return nil, err
			}
			req.EssayPrompt = divisionPrompt(prompts, "")
		}
		return req, nil
	}
	return nil, nil
}

// FindRuleConflicts lists every pair of same-type grade rules, and every pair
// of divisions, whose grade ranges overlap
func (r *RuleResolver) FindRuleConflicts(ctx context.Context, competitionYearID string) ([]models.RuleConflict, error) {
	if err := r.requireYear(ctx, competitionYearID); err != nil {
		return nil, err
	}
	rules, err := r.rules.ListGradeRules(ctx, competitionYearID, nil)
	if err != nil {
		return nil, err
	}
	divisions, err := r.rules.ListDivisions(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}

	conflicts := []models.RuleConflict{}
	for i := range divisions {
		for j := i + 1; j < len(divisions); j++ {
			a, b := divisions[i], divisions[j]
			if lo, hi, ok := overlap(a.MinGrade, a.MaxGrade, b.MinGrade, b.MaxGrade); ok {
				conflicts = append(conflicts, models.RuleConflict{
					Source: models.SourceDivision, FirstID: a.ID, SecondID: b.ID, MinGrade: lo, MaxGrade: hi,
				})
			}
		}
	}
	for i := range rules {
		for j := i + 1; j < len(rules); j++ {
			a, b := rules[i], rules[j]
			if a.Type != b.Type {
				continue
			}
			if lo, hi, ok := overlap(a.MinGrade, a.MaxGrade, b.MinGrade, b.MaxGrade); ok {
				conflicts = append(conflicts, models.RuleConflict{
					Source: models.SourceGradeRule, Type: a.Type, FirstID: a.ID, SecondID: b.ID, MinGrade: lo, MaxGrade: hi,
				})
			}
		}
	}
	return conflicts, nil
}

func (r *RuleResolver) requireYear(ctx context.Context, competitionYearID string) error {
	year, err := r.years.Get(ctx, competitionYearID)
	if err != nil {
		return err
	}
	if year == nil {
		return fmt.Errorf("competition year %s: %w", competitionYearID, ErrCompetitionYearNotFound)
	}
	return nil
}

// firstGradeRule returns the first rule covering grade and a conflict for
// every later rule that also covers it
func firstGradeRule(rules []models.GradeRule, grade int) (*models.GradeRule, []models.RuleConflict) {
	var winner *models.GradeRule
	var conflicts []models.RuleConflict
	for i := range rules {
		if !rules[i].Contains(grade) {
			continue
		}
		if winner == nil {
			winner = &rules[i]
			continue
		}
		lo, hi, _ := overlap(winner.MinGrade, winner.MaxGrade, rules[i].MinGrade, rules[i].MaxGrade)
		conflicts = append(conflicts, models.RuleConflict{
			Source: models.SourceGradeRule, Type: winner.Type, FirstID: winner.ID, SecondID: rules[i].ID, MinGrade: lo, MaxGrade: hi,
		})
	}
	return winner, conflicts
}

func firstDivision(divisions []models.Division, grade int) (*models.Division, []models.RuleConflict) {
	var winner *models.Division
	var conflicts []models.RuleConflict
	for i := range divisions {
		if !divisions[i].Contains(grade) {
			continue
		}
		if winner == nil {
			winner = &divisions[i]
			continue
		}
		lo, hi, _ := overlap(winner.MinGrade, winner.MaxGrade, divisions[i].MinGrade, divisions[i].MaxGrade)
		conflicts = append(conflicts, models.RuleConflict{
			Source: models.SourceDivision, FirstID: winner.ID, SecondID: divisions[i].ID, MinGrade: lo, MaxGrade: hi,
		})
	}
	return winner, conflicts
}

// divisionPrompt returns the first prompt attached to divisionID; an empty
// divisionID selects the year-level prompt
func divisionPrompt(prompts []models.EssayPrompt, divisionID string) *models.EssayPrompt {
	for i := range prompts {
		p := &prompts[i]
		if divisionID == "" && p.DivisionID == nil {
			return p
		}
		if divisionID != "" && p.DivisionID != nil && *p.DivisionID == divisionID {
			return p
		}
	}
	return nil
}

func ofType(rules []models.GradeRule, t models.RuleType) []models.GradeRule {
	out := make([]models.GradeRule, 0, len(rules))
	for _, r := range rules {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func overlap(aMin, aMax, bMin, bMax int) (int, int, bool) {
	lo, hi := max(aMin, bMin), min(aMax, bMax)
	return lo, hi, lo <= hi
}
