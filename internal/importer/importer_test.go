package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bible-bee-api/internal/models"
)

func orderOf(n int) *int { return &n }

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFReference, TEXT ,Translation,Scripture_Order,notes\n" +
		"John 3:16,\"For God so loved the world, that\",NIV,2,x\n" +
		"\n" +
		"Ruth 1:16,Entreat me not,KJV,,\n" +
		"Psalm 23:1\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.CsvRow{
		{Reference: "John 3:16", Text: "For God so loved the world, that", Translation: "NIV", ScriptureOrder: orderOf(2)},
		{Reference: "Ruth 1:16", Text: "Entreat me not", Translation: "KJV"},
		{Reference: "Psalm 23:1"},
	}, rows)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"no reference":   "text,translation\nabc,NIV\n",
		"bad order":      "reference,scripture_order\nJohn 1:1,first\n",
		"unclosed quote": "reference\n\"John 1:1\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalidFile)
		})
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Reference", "Text", "Translation", "Scripture_Order"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Romans 12:2", "Do not conform", "NIV", 1}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"James 1:5", "If any of you lacks wisdom", "NIV"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []models.CsvRow{
		{Reference: "Romans 12:2", Text: "Do not conform", Translation: "NIV", ScriptureOrder: orderOf(1)},
		{Reference: "James 1:5", Text: "If any of you lacks wisdom", Translation: "NIV"},
	}, rows)
}

func TestReadXLSX_RejectsGarbage(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestReadRows_ByExtension(t *testing.T) {
	rows, err := ReadRows("scriptures.CSV", strings.NewReader("reference\nJude 1:24\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadRows("scriptures.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestDecodeBundle(t *testing.T) {
	upload, err := DecodeBundle(strings.NewReader(`{
		"competition_year": "2025",
		"translations": ["NIV", "KJV"],
		"scriptures": [
			{"reference": "Romans 12:2", "order": 1, "texts": {"NIV": "Do not conform", "KJV": "Be not conformed"}}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "2025", upload.CompetitionYear)
	require.Len(t, upload.Scriptures, 1)
	assert.Equal(t, 1, *upload.Scriptures[0].Order)
	assert.Equal(t, "Be not conformed", upload.Scriptures[0].Texts["KJV"])

	_, err = DecodeBundle(strings.NewReader(`{"scriptures": [`))
	assert.ErrorIs(t, err, ErrInvalidFile)
}
