package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   \t ", want: ""},
		{name: "case folding", in: "JOHN 3:16", want: "john 3:16"},
		{name: "trim and collapse", in: "  Psalm   23:1  ", want: "psalm 23:1"},
		{name: "space around colon", in: "Psalm  23: 1", want: "psalm 23:1"},
		{name: "space around hyphen", in: "Proverbs 3:5 - 6", want: "proverbs 3:5-6"},
		{name: "abbreviation period", in: "1 cor. 13:4", want: "1 cor 13:4"},
		{name: "en dash range", in: "Proverbs 3:5–6", want: "proverbs 3:5-6"},
		{name: "em dash range", in: "Romans 8:38—39", want: "romans 8:38-39"},
		{name: "comma removed", in: "John 3:16, 18", want: "john 3:16 18"},
		{name: "trailing comma", in: "Romans 8:28,", want: "romans 8:28"},
		{name: "accents", in: "Génesis 1:1", want: "genesis 1:1"},
		{name: "full width digits", in: "John ３:１６", want: "john 3:16"},
		{name: "other punctuation", in: "\"Ruth 1:16!\"", want: "ruth 1:16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"1 Cor. 13:4", "Psalm  23: 1", "Song of Songs 2:4", ""} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestKey_FormatTolerance(t *testing.T) {
	pairs := [][2]string{
		{"1 cor. 13:4", "1 Corinthians 13:4"},
		{"1Cor 13:4", "1 Corinthians 13:4"},
		{"I Corinthians 13:4", "1 Corinthians 13:4"},
		{"First Corinthians 13:4", "1 corinthians 13:4"},
		{"JOHN 3:16", "John 3:16"},
		{"Jn 3:16", "John 3:16"},
		{"Psalm  23: 1", "Psalm 23:1"},
		{"Ps 23:1", "Psalms 23:1"},
		{"Prov. 3:5–6", "Proverbs 3:5-6"},
		{"Song of Solomon 2:4", "Song of Songs 2:4"},
		{"2 Tim 3:16", "2 Timothy 3:16"},
		{"Romans 8:28,", "Romans 8:28"},
		{"Rom., 8:28", "Romans 8:28"},
	}
	for _, p := range pairs {
		assert.Equal(t, Key(p[1]), Key(p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestKey_DistinguishesDifferentReferences(t *testing.T) {
	assert.NotEqual(t, Key("John 3:16"), Key("1 John 3:16"))
	assert.NotEqual(t, Key("1 Cor 13:4"), Key("2 Cor 13:4"))
	assert.NotEqual(t, Key("Col 3:23"), Key("1 Co 3:23"))
	assert.NotEqual(t, Key("Romans 12:2"), Key("Romans 12:1"))
}

func TestKey_UnknownBookKeepsNormalizedForm(t *testing.T) {
	assert.Equal(t, "ecclesiasticus 1:1", Key("Ecclesiasticus 1:1"))
	assert.Equal(t, "", Key("  "))
}

func TestKey_CanonicalForm(t *testing.T) {
	assert.Equal(t, "1 corinthians 13:4", Key("1 cor. 13:4"))
	assert.Equal(t, "psalms 23", Key("Psalm 23"))
	assert.Equal(t, "jude", Key("Jude"))
}

func TestParse(t *testing.T) {
	ref, ok := Parse("Prov. 3:5–6")
	require.True(t, ok)
	assert.Equal(t, Reference{Book: "proverbs", Chapter: 3, VerseStart: 5, VerseEnd: 6}, ref)

	ref, ok = Parse("John 3:16")
	require.True(t, ok)
	assert.Equal(t, Reference{Book: "john", Chapter: 3, VerseStart: 16, VerseEnd: 16}, ref)

	ref, ok = Parse("Psalm 23")
	require.True(t, ok)
	assert.Equal(t, Reference{Book: "psalms", Chapter: 23}, ref)

	for _, bad := range []string{"", "John", "John three", "John 3:6-2", "Narnia 1:1"} {
		_, ok := Parse(bad)
		assert.False(t, ok, bad)
	}
}
