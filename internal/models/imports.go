package models

import "github.com/bible-bee-api/internal/reference"

// CsvRow is one row of a scripture spreadsheet export
type CsvRow struct {
	Reference      string `json:"reference" validate:"required"`
	Text           string `json:"text"`
	Translation    string `json:"translation"`
	ScriptureOrder *int   `json:"scripture_order,omitempty"`
}

// JsonTextItem is one entry of a JSON text bundle as uploaded.
// Order is import-time metadata and never leaves the matcher.
type JsonTextItem struct {
	Reference string            `json:"reference" validate:"required"`
	Texts     map[string]string `json:"texts" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Order     *int              `json:"order,omitempty"`
}

// JsonTextUpload is the JSON text bundle
type JsonTextUpload struct {
	CompetitionYear string         `json:"competition_year" validate:"required"`
	Translations    []string       `json:"translations" validate:"required,min=1,dive,required"`
	Scriptures      []JsonTextItem `json:"scriptures" validate:"required,min=1,dive"`
}

// ScriptureText is a JSON bundle entry with import-only fields removed
type ScriptureText struct {
	Reference string            `json:"reference"`
	Texts     map[string]string `json:"texts"`
}

// IndexedCsvRow is a CSV row with its position in the input
type IndexedCsvRow struct {
	Index int    `json:"index"`
	Row   CsvRow `json:"row"`
}

// IndexedScriptureText is a bundle entry with its position in the input
type IndexedScriptureText struct {
	Index int           `json:"index"`
	Item  ScriptureText `json:"item"`
}

// CsvJsonMatch pairs a CSV row with the bundle entry sharing its reference key
type CsvJsonMatch struct {
	Key  string               `json:"key"`
	CSV  IndexedCsvRow        `json:"csv"`
	JSON IndexedScriptureText `json:"json"`
}

// DuplicateKey records a reference key that appeared more than once on one side
type DuplicateKey struct {
	Side    string `json:"side"`
	Key     string `json:"key"`
	Indexes []int  `json:"indexes"`
}

// MatchPreview is the outcome of reconciling CSV rows against a JSON bundle
type MatchPreview struct {
	Matches    []CsvJsonMatch         `json:"matches"`
	CsvOnly    []IndexedCsvRow        `json:"csv_only"`
	JsonOnly   []IndexedScriptureText `json:"json_only"`
	Duplicates []DuplicateKey         `json:"duplicates,omitempty"`
	// Unrecognized references do not read as book, chapter and verses; they
	// still take part in matching by key
	Unrecognized []UnrecognizedReference `json:"unrecognized,omitempty"`
}

// UnrecognizedReference is an input reference that Parse rejects
type UnrecognizedReference struct {
	Side      string `json:"side"`
	Index     int    `json:"index"`
	Reference string `json:"reference"`
}

// ScriptureLookup is a year's scripture found by reference key
type ScriptureLookup struct {
	Reference string               `json:"reference"`
	Key       string               `json:"key"`
	Parsed    *reference.Reference `json:"parsed,omitempty"`
	Scripture *Scripture           `json:"scripture"`
}

// SkippedRow is an input row that could not be committed
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// CommitResult reports what a CSV commit wrote
type CommitResult struct {
	Inserted int          `json:"inserted"`
	Updated  int          `json:"updated"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
}

// MergeResult reports what a JSON text merge wrote
type MergeResult struct {
	Updated   int                    `json:"updated"`
	Created   int                    `json:"created"`
	Unmatched []IndexedScriptureText `json:"unmatched"`
}
