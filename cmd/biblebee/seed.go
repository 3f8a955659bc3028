package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/reference"
	"github.com/bible-bee-api/internal/repository"
)

// divisionDefinition describes one demo division; Essay attaches a prompt
type divisionDefinition struct {
	Name            string
	MinGrade        int
	MaxGrade        int
	MinimumRequired int
	Essay           string
}

var demoDivisions = []divisionDefinition{
	{Name: "Primary", MinGrade: 0, MaxGrade: 2, MinimumRequired: 3},
	{Name: "Junior", MinGrade: 3, MaxGrade: 5, MinimumRequired: 5},
	{Name: "Intermediate", MinGrade: 6, MaxGrade: 8, MinimumRequired: 6},
	{Name: "Senior", MinGrade: 9, MaxGrade: 12, Essay: "What does it mean to walk by faith?"},
}

// demoScriptures are KJV texts in memorization order
var demoScriptures = []struct {
	Reference string
	Text      string
}{
	{"John 3:16", "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
	{"Psalm 23:1", "The LORD is my shepherd; I shall not want."},
	{"Proverbs 3:5", "Trust in the LORD with all thine heart; and lean not unto thine own understanding."},
	{"Romans 12:2", "And be not conformed to this world: but be ye transformed by the renewing of your mind."},
	{"Ruth 1:16", "Intreat me not to leave thee, or to return from following after thee: for whither thou goest, I will go."},
	{"James 1:5", "If any of you lack wisdom, let him ask of God, that giveth to all men liberally, and upbraideth not; and it shall be given him."},
	{"1 Corinthians 13:4", "Charity suffereth long, and is kind; charity envieth not; charity vaunteth not itself, is not puffed up."},
}

// demoGrades are registration grades as entered on the forms
var demoGrades = []string{"Pre-K", "K", "1st", "2", "3rd", "4", "5th", "6", "7th", "8", "9th", "10", "11th", "12"}

type seedResult struct {
	CompetitionYearID string `json:"competition_year_id"`
	Divisions         int    `json:"divisions"`
	GradeRules        int    `json:"grade_rules"`
	Scriptures        int    `json:"scriptures"`
	Children          int    `json:"children"`
}

func newSeedCmd(env *cliEnv) *cobra.Command {
	var year int
	var children bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo competition year with divisions, rules and scriptures",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.store(cmd.Context())
			if err != nil {
				return err
			}
			result, err := seedDemo(cmd.Context(), store, year, children)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&year, "year-number", time.Now().Year(), "Competition year number")
	cmd.Flags().BoolVar(&children, "children", false, "Also register one demo child per grade")
	return cmd
}

func seedDemo(ctx context.Context, store repository.Store, yearNumber int, withChildren bool) (*seedResult, error) {
	year := &models.CompetitionYear{
		Year:        yearNumber,
		Name:        fmt.Sprintf("Bible Bee %d", yearNumber),
		Description: "Demo competition year",
	}
	if err := store.Years.Add(ctx, year); err != nil {
		return nil, err
	}
	result := &seedResult{CompetitionYearID: year.ID}

	for _, def := range demoDivisions {
		d := &models.Division{
			CompetitionYearID: year.ID,
			Name:              def.Name,
			MinGrade:          def.MinGrade,
			MaxGrade:          def.MaxGrade,
			MinimumRequired:   def.MinimumRequired,
		}
		if err := store.Rules.AddDivision(ctx, d); err != nil {
			return nil, err
		}
		result.Divisions++
		if def.Essay == "" {
			continue
		}
		p := &models.EssayPrompt{
			CompetitionYearID: year.ID,
			DivisionID:        &d.ID,
			Title:             def.Name + " Essay",
			Prompt:            def.Essay,
		}
		if err := store.Rules.AddEssayPrompt(ctx, p); err != nil {
			return nil, err
		}
	}

	// Pre-K is below every division and takes the grade rule path
	preK := &models.GradeRule{
		CompetitionYearID: year.ID,
		MinGrade:          -1,
		MaxGrade:          -1,
		Type:              models.RuleTypeScripture,
		TargetCount:       2,
		Instructions:      "Say the verse with a parent",
	}
	if err := store.Rules.AddGradeRule(ctx, preK); err != nil {
		return nil, err
	}
	result.GradeRules++

	for i, s := range demoScriptures {
		sc := &models.Scripture{
			CompetitionYearID:   year.ID,
			Reference:           s.Reference,
			NormalizedReference: reference.Key(s.Reference),
			Text:                s.Text,
			Translation:         "KJV",
			ScriptureOrder:      i + 1,
			Texts:               map[string]string{"KJV": s.Text},
		}
		if err := store.Scriptures.Add(ctx, sc); err != nil {
			return nil, err
		}
		result.Scriptures++
	}

	if withChildren {
		for i, grade := range demoGrades {
			c := &models.Child{
				FirstName: "Demo",
				LastName:  "Child " + strconv.Itoa(i+1),
				Grade:     grade,
				IsActive:  true,
			}
			if err := store.Children.Add(ctx, c); err != nil {
				return nil, err
			}
			result.Children++
		}
	}
	return result, nil
}
