package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bible-bee-api/internal/matching"
	"github.com/bible-bee-api/internal/metrics"
	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/reference"
	"github.com/bible-bee-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MergeOptions controls MergeJsonTexts
type MergeOptions struct {
	// CreateMissing inserts bundle items that match no persisted scripture
	CreateMissing bool
}

// ImportService commits spreadsheet rows and JSON text bundles to a year
type ImportService struct {
	years      repository.CompetitionYearRepository
	scriptures repository.ScriptureRepository
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(years repository.CompetitionYearRepository, scriptures repository.ScriptureRepository, logger *zap.Logger) *ImportService {
	return &ImportService{
		years:      years,
		scriptures: scriptures,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// ValidateBundle checks a JSON text bundle against its struct tags
func (s *ImportService) ValidateBundle(upload *models.JsonTextUpload) error {
	if upload == nil {
		return fmt.Errorf("%w: empty bundle", ErrInvalidBundle)
	}
	if err := s.validate.Struct(upload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return nil
}

// PreviewImport reconciles spreadsheet rows with a JSON text bundle without
// writing anything
func (s *ImportService) PreviewImport(ctx context.Context, rows []models.CsvRow, upload *models.JsonTextUpload) (models.MatchPreview, error) {
	if err := s.ValidateBundle(upload); err != nil {
		return models.MatchPreview{}, err
	}
	preview := matching.PreviewCsvJsonMatches(rows, upload.Scriptures)
	preview.Unrecognized = unrecognizedReferences(rows, upload.Scriptures)
	if len(preview.Unrecognized) > 0 {
		s.logger.Warn("references not recognized", zap.Int("count", len(preview.Unrecognized)))
	}
	metrics.RecordPreview(len(preview.Matches), len(preview.CsvOnly), len(preview.JsonOnly))
	s.logger.Info("import previewed",
		zap.Int("matches", len(preview.Matches)),
		zap.Int("csv_only", len(preview.CsvOnly)),
		zap.Int("json_only", len(preview.JsonOnly)),
		zap.Int("duplicates", len(preview.Duplicates)))
	return preview, nil
}

// CommitCsvRowsToYear upserts spreadsheet rows into a year's scriptures by
// reference key. Rows without scripture_order keep the stored order on
// update and are appended after the highest order on insert.
func (s *ImportService) CommitCsvRowsToYear(ctx context.Context, rows []models.CsvRow, competitionYearID string) (*models.CommitResult, error) {
	if err := s.requireYear(ctx, competitionYearID); err != nil {
		return nil, err
	}
	existing, err := s.scriptures.ListByYear(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*models.Scripture, len(existing))
	maxOrder := 0
	for i := range existing {
		byKey[existing[i].NormalizedReference] = &existing[i]
		maxOrder = max(maxOrder, existing[i].ScriptureOrder)
	}

	result := &models.CommitResult{}
	for i, row := range rows {
		key := reference.Key(row.Reference)
		if key == "" {
			result.Skipped = append(result.Skipped, models.SkippedRow{Index: i, Reason: "empty reference"})
			s.logger.Warn("csv row skipped", zap.Int("index", i), zap.String("reason", "empty reference"))
			continue
		}

		if sc, ok := byKey[key]; ok {
			sc.Text = row.Text
			sc.Translation = row.Translation
			if row.ScriptureOrder != nil {
				sc.ScriptureOrder = *row.ScriptureOrder
				maxOrder = max(maxOrder, sc.ScriptureOrder)
			}
			if err := s.scriptures.Update(ctx, sc); err != nil {
				return nil, fmt.Errorf("commit row %d: %w", i, err)
			}
			result.Updated++
			continue
		}

		sc := &models.Scripture{
			CompetitionYearID:   competitionYearID,
			Reference:           strings.TrimSpace(row.Reference),
			NormalizedReference: key,
			Text:                row.Text,
			Translation:         row.Translation,
			ScriptureOrder:      maxOrder + 1,
		}
		if row.ScriptureOrder != nil {
			sc.ScriptureOrder = *row.ScriptureOrder
		}
		if err := s.scriptures.Add(ctx, sc); err != nil {
			return nil, fmt.Errorf("commit row %d: %w", i, err)
		}
		maxOrder = max(maxOrder, sc.ScriptureOrder)
		byKey[key] = sc
		result.Inserted++
	}

	metrics.RecordCommit(result.Inserted, result.Updated, len(result.Skipped))
	s.logger.Info("csv rows committed",
		zap.String("competition_year_id", competitionYearID),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// MergeJsonTexts merges a bundle's translations into the year's scriptures.
// Only the texts of matched scriptures change; incoming translations replace
// stored ones of the same name and the rest are kept. Unmatched lists every
// bundle item that matched no persisted scripture, whether or not it was
// created.
func (s *ImportService) MergeJsonTexts(ctx context.Context, upload *models.JsonTextUpload, competitionYearID string, opts MergeOptions) (*models.MergeResult, error) {
	if err := s.ValidateBundle(upload); err != nil {
		return nil, err
	}
	if err := s.requireYear(ctx, competitionYearID); err != nil {
		return nil, err
	}
	existing, err := s.scriptures.ListByYear(ctx, competitionYearID)
	if err != nil {
		return nil, err
	}

	p := matching.Pair(
		existing, func(sc models.Scripture) string { return sc.NormalizedReference },
		upload.Scriptures, func(it models.JsonTextItem) string { return reference.Key(it.Reference) },
	)

	result := &models.MergeResult{Unmatched: []models.IndexedScriptureText{}}
	for _, pair := range p.Pairs {
		sc := existing[pair[0]]
		item := matching.StripOrder(upload.Scriptures[pair[1]])

		texts := make(map[string]string, len(sc.Texts)+len(item.Texts))
		for k, v := range sc.Texts {
			texts[k] = v
		}
		for k, v := range item.Texts {
			texts[k] = v
		}
		if err := s.scriptures.UpdateTexts(ctx, sc.ID, texts); err != nil {
			return nil, fmt.Errorf("merge texts of %s: %w", sc.Reference, err)
		}
		result.Updated++
	}

	taken := make(map[string]bool, len(existing))
	maxOrder := 0
	for _, sc := range existing {
		taken[sc.NormalizedReference] = true
		maxOrder = max(maxOrder, sc.ScriptureOrder)
	}
	for _, j := range p.RightOnly {
		item := matching.StripOrder(upload.Scriptures[j])
		result.Unmatched = append(result.Unmatched, models.IndexedScriptureText{Index: j, Item: item})

		key := reference.Key(item.Reference)
		if !opts.CreateMissing || key == "" || taken[key] {
			continue
		}
		translation, text := primaryText(upload.Translations, item.Texts)
		sc := &models.Scripture{
			CompetitionYearID:   competitionYearID,
			Reference:           strings.TrimSpace(item.Reference),
			NormalizedReference: key,
			Text:                text,
			Translation:         translation,
			ScriptureOrder:      maxOrder + 1,
			Texts:               item.Texts,
		}
		if err := s.scriptures.Add(ctx, sc); err != nil {
			return nil, fmt.Errorf("create scripture %s: %w", item.Reference, err)
		}
		taken[key] = true
		maxOrder = sc.ScriptureOrder
		result.Created++
	}

	metrics.RecordMerge(result.Updated, result.Created, len(result.Unmatched))
	if len(result.Unmatched) > 0 {
		s.logger.Warn("bundle items without scripture",
			zap.String("competition_year_id", competitionYearID),
			zap.Int("count", len(result.Unmatched)))
	}
	s.logger.Info("texts merged",
		zap.String("competition_year_id", competitionYearID),
		zap.Int("updated", result.Updated),
		zap.Int("created", result.Created))
	return result, nil
}

// FindScripture looks up the year's scripture whose key matches ref
func (s *ImportService) FindScripture(ctx context.Context, competitionYearID, ref string) (*models.ScriptureLookup, error) {
	if err := s.requireYear(ctx, competitionYearID); err != nil {
		return nil, err
	}
	key := reference.Key(ref)
	if key == "" {
		return nil, fmt.Errorf("empty reference: %w", ErrScriptureNotFound)
	}
	sc, err := s.scriptures.FindByNormalizedReference(ctx, competitionYearID, key)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("scripture %q: %w", ref, ErrScriptureNotFound)
	}

	lookup := &models.ScriptureLookup{Reference: ref, Key: key, Scripture: sc}
	if parsed, ok := reference.Parse(ref); ok {
		lookup.Parsed = &parsed
	}
	return lookup, nil
}

func unrecognizedReferences(rows []models.CsvRow, items []models.JsonTextItem) []models.UnrecognizedReference {
	var out []models.UnrecognizedReference
	for i, row := range rows {
		if _, ok := reference.Parse(row.Reference); !ok {
			out = append(out, models.UnrecognizedReference{Side: matching.SideCSV, Index: i, Reference: row.Reference})
		}
	}
	for j, item := range items {
		if _, ok := reference.Parse(item.Reference); !ok {
			out = append(out, models.UnrecognizedReference{Side: matching.SideJSON, Index: j, Reference: item.Reference})
		}
	}
	return out
}

func (s *ImportService) requireYear(ctx context.Context, competitionYearID string) error {
	year, err := s.years.Get(ctx, competitionYearID)
	if err != nil {
		return err
	}
	if year == nil {
		return fmt.Errorf("competition year %s: %w", competitionYearID, ErrCompetitionYearNotFound)
	}
	return nil
}

// primaryText picks the first listed translation the item carries, falling
// back to the alphabetically first one
func primaryText(translations []string, texts map[string]string) (string, string) {
	for _, t := range translations {
		if text, ok := texts[t]; ok {
			return t, text
		}
	}
	names := make([]string, 0, len(texts))
	for t := range texts {
		names = append(names, t)
	}
	slices.Sort(names)
	if len(names) == 0 {
		return "", ""
	}
	return names[0], texts[names[0]]
}
