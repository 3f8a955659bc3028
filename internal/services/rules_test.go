package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bible-bee-api/internal/models"
)

func TestGetApplicableGradeRule_InclusiveRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	primary := addRule(t, s, year, 0, 3, models.RuleTypeScripture, 5)
	junior := addRule(t, s, year, 4, 6, models.RuleTypeScripture, 10)
	r := NewRuleResolver(s.Years, s.Rules, false)

	scripture := models.RuleTypeScripture
	tests := []struct {
		grade int
		want  string
	}{
		{0, primary},
		{3, primary},
		{4, junior},
		{6, junior},
		{7, ""},
		{GradePreK, ""},
	}
	for _, tt := range tests {
		rule, err := r.GetApplicableGradeRule(ctx, year, tt.grade, &scripture)
		require.NoError(t, err)
		if tt.want == "" {
			assert.Nil(t, rule, "grade %d", tt.grade)
			continue
		}
		require.NotNil(t, rule, "grade %d", tt.grade)
		assert.Equal(t, tt.want, rule.ID)
	}

	essay := models.RuleTypeEssay
	rule, err := r.GetApplicableGradeRule(ctx, year, 5, &essay)
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestGetApplicableGradeRule_OverlapFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	wide := addRule(t, s, year, 3, 8, models.RuleTypeScripture, 12)
	addRule(t, s, year, 5, 6, models.RuleTypeScripture, 4)

	rule, err := NewRuleResolver(s.Years, s.Rules, false).GetApplicableGradeRule(ctx, year, 5, nil)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, wide, rule.ID)

	_, err = NewRuleResolver(s.Years, s.Rules, true).GetApplicableGradeRule(ctx, year, 5, nil)
	assert.ErrorIs(t, err, ErrAmbiguousRule)

	rule, err = NewRuleResolver(s.Years, s.Rules, true).GetApplicableGradeRule(ctx, year, 3, nil)
	require.NoError(t, err, "grades covered once are fine in strict mode")
	assert.Equal(t, wide, rule.ID)
}

func TestResolveRequirement_DivisionTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	addRule(t, s, year, 0, 12, models.RuleTypeScripture, 3)
	div := &models.Division{CompetitionYearID: year, Name: "Junior", MinGrade: 4, MaxGrade: 6, MinimumRequired: 20, Instructions: "learn them all"}
	require.NoError(t, s.Rules.AddDivision(ctx, div))

	req, err := NewRuleResolver(s.Years, s.Rules, false).ResolveRequirement(ctx, year, 5)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.SourceDivision, req.Source)
	assert.Equal(t, models.RuleTypeScripture, req.Type)
	assert.Equal(t, 20, req.TargetCount)
	assert.Equal(t, "learn them all", req.Instructions)
	require.NotNil(t, req.Division)
	assert.Equal(t, div.ID, req.Division.ID)

	req, err = NewRuleResolver(s.Years, s.Rules, false).ResolveRequirement(ctx, year, 2)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.SourceGradeRule, req.Source)
	assert.Equal(t, 3, req.TargetCount)
}

func TestResolveRequirement_EssayDivision(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	div := &models.Division{CompetitionYearID: year, Name: "Senior", MinGrade: 9, MaxGrade: 12, MinimumRequired: 30}
	require.NoError(t, s.Rules.AddDivision(ctx, div))
	prompt := &models.EssayPrompt{CompetitionYearID: year, DivisionID: &div.ID, Title: "Faithfulness", Instructions: "500 words"}
	require.NoError(t, s.Rules.AddEssayPrompt(ctx, prompt))

	req, err := NewRuleResolver(s.Years, s.Rules, false).ResolveRequirement(ctx, year, 10)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.RuleTypeEssay, req.Type)
	assert.Equal(t, 1, req.TargetCount)
	assert.Equal(t, "500 words", req.Instructions)
	require.NotNil(t, req.EssayPrompt)
	assert.Equal(t, prompt.ID, req.EssayPrompt.ID)
}

func TestResolveRequirement_GradeRuleFallback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	addRule(t, s, year, 0, 8, models.RuleTypeScripture, 6)
	essayRule := addRule(t, s, year, 9, 12, models.RuleTypeEssay, 1)
	prompt := &models.EssayPrompt{CompetitionYearID: year, Title: "General"}
	require.NoError(t, s.Rules.AddEssayPrompt(ctx, prompt))
	r := NewRuleResolver(s.Years, s.Rules, false)

	req, err := r.ResolveRequirement(ctx, year, 11)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.SourceGradeRule, req.Source)
	assert.Equal(t, models.RuleTypeEssay, req.Type)
	assert.Equal(t, essayRule, req.GradeRule.ID)
	require.NotNil(t, req.EssayPrompt)
	assert.Equal(t, prompt.ID, req.EssayPrompt.ID)

	req, err = r.ResolveRequirement(ctx, year, GradePreK)
	require.NoError(t, err)
	assert.Nil(t, req, "no rule means no requirement")
}

func TestResolveRequirement_ScriptureRuleBeforeEssayRule(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	addRule(t, s, year, 7, 9, models.RuleTypeEssay, 1)
	scripture := addRule(t, s, year, 7, 9, models.RuleTypeScripture, 8)

	req, err := NewRuleResolver(s.Years, s.Rules, false).ResolveRequirement(ctx, year, 8)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.RuleTypeScripture, req.Type)
	assert.Equal(t, scripture, req.GradeRule.ID)
}

func TestResolveRequirement_ReportsConflicts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	first := addRule(t, s, year, 1, 5, models.RuleTypeScripture, 5)
	second := addRule(t, s, year, 4, 8, models.RuleTypeScripture, 9)

	req, err := NewRuleResolver(s.Years, s.Rules, false).ResolveRequirement(ctx, year, 4)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, first, req.GradeRule.ID)
	require.Len(t, req.Conflicts, 1)
	assert.Equal(t, models.RuleConflict{
		Source: models.SourceGradeRule, Type: models.RuleTypeScripture,
		FirstID: first, SecondID: second, MinGrade: 4, MaxGrade: 5,
	}, req.Conflicts[0])

	_, err = NewRuleResolver(s.Years, s.Rules, true).ResolveRequirement(ctx, year, 4)
	assert.ErrorIs(t, err, ErrAmbiguousRule)
}

func TestFindRuleConflicts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	a := addRule(t, s, year, 0, 4, models.RuleTypeScripture, 5)
	b := addRule(t, s, year, 4, 6, models.RuleTypeScripture, 5)
	addRule(t, s, year, 0, 12, models.RuleTypeEssay, 1)
	addRule(t, s, year, 7, 12, models.RuleTypeScripture, 5)

	conflicts, err := NewRuleResolver(s.Years, s.Rules, false).FindRuleConflicts(ctx, year)
	require.NoError(t, err)
	require.Len(t, conflicts, 1, "rules of different types never conflict")
	assert.Equal(t, a, conflicts[0].FirstID)
	assert.Equal(t, b, conflicts[0].SecondID)
	assert.Equal(t, 4, conflicts[0].MinGrade)
	assert.Equal(t, 4, conflicts[0].MaxGrade)
}

func TestGetApplicableGradeRule_TypesResolvedSeparately(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	scriptureRule := addRule(t, s, year, 1, 12, models.RuleTypeScripture, 10)
	essayRule := addRule(t, s, year, 9, 12, models.RuleTypeEssay, 1)
	strict := NewRuleResolver(s.Years, s.Rules, true)

	rule, err := strict.GetApplicableGradeRule(ctx, year, 10, nil)
	require.NoError(t, err, "a scripture rule and an essay rule are not ambiguous")
	require.NotNil(t, rule)
	assert.Equal(t, scriptureRule, rule.ID)

	essay := models.RuleTypeEssay
	rule, err = strict.GetApplicableGradeRule(ctx, year, 10, &essay)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, essayRule, rule.ID)

	req, err := strict.ResolveRequirement(ctx, year, 10)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, scriptureRule, req.GradeRule.ID)
}

func TestGetApplicableGradeRule_EssayOnlyWhenNoScriptureRule(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	addRule(t, s, year, 1, 8, models.RuleTypeScripture, 10)
	essayRule := addRule(t, s, year, 9, 12, models.RuleTypeEssay, 1)

	rule, err := NewRuleResolver(s.Years, s.Rules, true).GetApplicableGradeRule(ctx, year, 11, nil)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, essayRule, rule.ID)
}

func TestRuleResolver_UnknownYear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := NewRuleResolver(s.Years, s.Rules, false)

	_, err := r.GetApplicableGradeRule(ctx, "missing", 3, nil)
	assert.ErrorIs(t, err, ErrCompetitionYearNotFound)
	_, err = r.FindRuleConflicts(ctx, "missing")
	assert.ErrorIs(t, err, ErrCompetitionYearNotFound)
}

func TestRuleResolver_PropagatesStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := addYear(t, s)
	r := NewRuleResolver(s.Years, failingRules{}, false)

	_, err := r.GetApplicableGradeRule(ctx, year, 3, nil)
	assert.ErrorIs(t, err, errStorage)
	_, err = r.ResolveRequirement(ctx, year, 3)
	assert.ErrorIs(t, err, errStorage)
	_, err = r.FindRuleConflicts(ctx, year)
	assert.ErrorIs(t, err, errStorage)
}
