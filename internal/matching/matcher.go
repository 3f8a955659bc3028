// Package matching reconciles scripture records from independently ordered
// sources by reference key. Positions and order fields never take part.
package matching

import (
	"cmp"
	"slices"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/reference"
)

// Side names used in duplicate reports
const (
	SideCSV  = "csv"
	SideJSON = "json"
)

// Pairing is the index-level outcome of Pair
type Pairing struct {
	// Pairs holds [leftIndex, rightIndex] in right-side order
	Pairs [][2]int
	// LeftOnly and RightOnly hold unpaired indexes in input order
	LeftOnly  []int
	RightOnly []int
	// LeftDuplicates maps a key to every left index carrying it, for keys seen
	// more than once; RightDuplicates likewise
	LeftDuplicates  map[string][]int
	RightDuplicates map[string][]int
	// Keys holds the key of each pair, parallel to Pairs
	Keys []string
}

// Pair matches left and right records one-to-one by key. The lookup is built
// from the left side and the last left record with a key wins it; right
// records are visited in order and each left record pairs at most once.
// Records with an empty key never pair.
func Pair[L, R any](left []L, leftKey func(L) string, right []R, rightKey func(R) string) Pairing {
	p := Pairing{
		LeftDuplicates:  map[string][]int{},
		RightDuplicates: map[string][]int{},
	}

	lookup := make(map[string]int, len(left))
	seenLeft := make(map[string][]int, len(left))
	for i, l := range left {
		k := leftKey(l)
		if k == "" {
			continue
		}
		lookup[k] = i
		seenLeft[k] = append(seenLeft[k], i)
	}
	for k, idx := range seenLeft {
		if len(idx) > 1 {
			p.LeftDuplicates[k] = idx
		}
	}

	paired := make(map[int]bool, len(left))
	seenRight := make(map[string][]int, len(right))
	for j, r := range right {
		k := rightKey(r)
		if k != "" {
			seenRight[k] = append(seenRight[k], j)
		}
		i, ok := lookup[k]
		if !ok || k == "" || paired[i] {
			p.RightOnly = append(p.RightOnly, j)
			continue
		}
		paired[i] = true
		p.Pairs = append(p.Pairs, [2]int{i, j})
		p.Keys = append(p.Keys, k)
	}
	for k, idx := range seenRight {
		if len(idx) > 1 {
			p.RightDuplicates[k] = idx
		}
	}

	for i := range left {
		if !paired[i] {
			p.LeftOnly = append(p.LeftOnly, i)
		}
	}
	return p
}

// StripOrder converts an uploaded bundle item into its persisted shape
func StripOrder(item models.JsonTextItem) models.ScriptureText {
	texts := make(map[string]string, len(item.Texts))
	for k, v := range item.Texts {
		texts[k] = v
	}
	return models.ScriptureText{Reference: item.Reference, Texts: texts}
}

// PreviewCsvJsonMatches reconciles spreadsheet rows with JSON bundle items.
// Every CSV row ends up in exactly one of Matches or CsvOnly and every JSON
// item in exactly one of Matches or JsonOnly.
func PreviewCsvJsonMatches(csvRows []models.CsvRow, jsonItems []models.JsonTextItem) models.MatchPreview {
	p := Pair(
		csvRows, func(r models.CsvRow) string { return reference.Key(r.Reference) },
		jsonItems, func(it models.JsonTextItem) string { return reference.Key(it.Reference) },
	)

	preview := models.MatchPreview{
		Matches:  make([]models.CsvJsonMatch, 0, len(p.Pairs)),
		CsvOnly:  make([]models.IndexedCsvRow, 0, len(p.LeftOnly)),
		JsonOnly: make([]models.IndexedScriptureText, 0, len(p.RightOnly)),
	}
	for n, pair := range p.Pairs {
		i, j := pair[0], pair[1]
		preview.Matches = append(preview.Matches, models.CsvJsonMatch{
			Key:  p.Keys[n],
			CSV:  models.IndexedCsvRow{Index: i, Row: csvRows[i]},
			JSON: models.IndexedScriptureText{Index: j, Item: StripOrder(jsonItems[j])},
		})
	}
	for _, i := range p.LeftOnly {
		preview.CsvOnly = append(preview.CsvOnly, models.IndexedCsvRow{Index: i, Row: csvRows[i]})
	}
	for _, j := range p.RightOnly {
		preview.JsonOnly = append(preview.JsonOnly, models.IndexedScriptureText{Index: j, Item: StripOrder(jsonItems[j])})
	}
	preview.Duplicates = duplicates(p)
	return preview
}

func duplicates(p Pairing) []models.DuplicateKey {
	var out []models.DuplicateKey
	for k, idx := range p.LeftDuplicates {
		out = append(out, models.DuplicateKey{Side: SideCSV, Key: k, Indexes: idx})
	}
	for k, idx := range p.RightDuplicates {
		out = append(out, models.DuplicateKey{Side: SideJSON, Key: k, Indexes: idx})
	}
	slices.SortFunc(out, func(a, b models.DuplicateKey) int {
		if c := cmp.Compare(a.Side, b.Side); c != 0 {
			return c
		}
		return cmp.Compare(a.Indexes[0], b.Indexes[0])
	})
	return out
}
