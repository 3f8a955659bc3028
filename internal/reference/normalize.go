// Package reference canonicalizes scripture citations so that references typed
// by different people ("1 cor. 13:4", "1 Corinthians 13:4") compare equal.
package reference

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dashes = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// fold strips accents and applies compatibility folding. A transform chain
// is stateful, so one is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ':' || r == '-'
}

// Normalize reduces a reference to a comparable form: whitespace trimmed and
// collapsed, punctuation other than ':' and '-' removed, whitespace next to
// those separators removed, lowercased. It never fails; "" maps to "".
func Normalize(reference string) string {
	if reference == "" {
		return ""
	}
	s := dashes.Replace(fold(reference))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	afterSeparator := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if b.Len() > 0 && !afterSeparator {
				pendingSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace {
				b.WriteByte(' ')
			}
			pendingSpace = false
			afterSeparator = false
			b.WriteRune(unicode.ToLower(r))
		case isSeparator(r):
			pendingSpace = false
			afterSeparator = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Key is the identity of a reference for matching and persistence: the
// normalized form with the leading book name replaced by its canonical name.
// References whose book is not in the table keep their normalized form.
func Key(reference string) string {
	return DefaultBooks().Key(reference)
}

// Key is like the package-level Key but uses this table
func (t *BookTable) Key(reference string) string {
	n := Normalize(reference)
	if n == "" {
		return ""
	}
	book, rest, ok := t.split(n)
	if !ok {
		return n
	}
	if rest == "" {
		return book
	}
	return book + " " + rest
}

// Reference is a parsed citation
type Reference struct {
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	VerseStart int    `json:"verse_start,omitempty"`
	VerseEnd   int    `json:"verse_end,omitempty"`
}

// Parse splits a reference into book, chapter and verse range. Only single
// chapter citations ("john 3", "john 3:16", "proverbs 3:5-6") are parsed;
// anything else reports false.
func Parse(reference string) (Reference, bool) {
	book, rest, ok := DefaultBooks().split(Normalize(reference))
	if !ok || rest == "" {
		return Reference{}, false
	}

	ref := Reference{Book: book}
	chapter, verses, hasVerses := strings.Cut(rest, ":")
	c, err := strconv.Atoi(chapter)
	if err != nil || c <= 0 {
		return Reference{}, false
	}
	ref.Chapter = c
	if !hasVerses {
		return ref, true
	}

	start, end, isRange := strings.Cut(verses, "-")
	v, err := strconv.Atoi(start)
	if err != nil || v <= 0 {
		return Reference{}, false
	}
	ref.VerseStart, ref.VerseEnd = v, v
	if isRange {
		e, err := strconv.Atoi(end)
		if err != nil || e < v {
			return Reference{}, false
		}
		ref.VerseEnd = e
	}
	return ref, true
}
