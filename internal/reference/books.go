package reference

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed books.yaml
var booksYAML []byte

type bookEntry struct {
	Name    string   `yaml:"name"`
	Base    string   `yaml:"base"`
	Number  int      `yaml:"number"`
	Aliases []string `yaml:"aliases"`
}

type bookFile struct {
	Books []bookEntry `yaml:"books"`
}

// BookTable maps normalized book aliases to canonical book names
type BookTable struct {
	canonical map[string]string
}

var ordinalPrefixes = map[int][]string{
	1: {"1", "i", "1st", "first"},
	2: {"2", "ii", "2nd", "second"},
	3: {"3", "iii", "3rd", "third"},
}

// ParseBookTable builds a table from the YAML book list
func ParseBookTable(data []byte) (*BookTable, error) {
	var f bookFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse book table: %w", err)
	}

	t := &BookTable{canonical: make(map[string]string)}
	for _, b := range f.Books {
		name, aliases, err := b.expand()
		if err != nil {
			return nil, err
		}
		canon := Normalize(name)
		for _, alias := range append(aliases, name) {
			if err := t.add(alias, canon); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (b bookEntry) expand() (string, []string, error) {
	if b.Base == "" {
		if b.Name == "" {
			return "", nil, fmt.Errorf("parse book table: entry without name or base")
		}
		return b.Name, b.Aliases, nil
	}

	prefixes, ok := ordinalPrefixes[b.Number]
	if !ok {
		return "", nil, fmt.Errorf("parse book table: %s has unsupported number %d", b.Base, b.Number)
	}
	name := strconv.Itoa(b.Number) + " " + b.Base
	bases := append([]string{b.Base}, b.Aliases...)
	aliases := make([]string, 0, len(prefixes)*len(bases))
	for _, p := range prefixes {
		for _, base := range bases {
			aliases = append(aliases, p+" "+base)
		}
	}
	return name, aliases, nil
}

func (t *BookTable) add(alias, canon string) error {
	n := Normalize(alias)
	forms := []string{n}
	if n != "" && n[0] >= '0' && n[0] <= '9' {
		// "1cor" is common; "icor" is not and would collide with bare aliases
		forms = append(forms, strings.ReplaceAll(n, " ", ""))
	}
	for _, form := range forms {
		if existing, ok := t.canonical[form]; ok && existing != canon {
			return fmt.Errorf("parse book table: alias %q maps to both %q and %q", form, existing, canon)
		}
		t.canonical[form] = canon
	}
	return nil
}

// maxBookTokens is the word count of the longest alias ("song of solomon")
const maxBookTokens = 3

// split finds the longest leading run of tokens that names a book
func (t *BookTable) split(normalized string) (book, rest string, ok bool) {
	tokens := strings.Split(normalized, " ")
	limit := min(maxBookTokens, len(tokens))
	for k := limit; k >= 1; k-- {
		candidate := strings.Join(tokens[:k], " ")
		if canon, found := t.canonical[candidate]; found {
			return canon, strings.Join(tokens[k:], " "), true
		}
	}
	return "", normalized, false
}

var (
	defaultBooks     *BookTable
	defaultBooksOnce sync.Once
)

// DefaultBooks returns the embedded book table
func DefaultBooks() *BookTable {
	defaultBooksOnce.Do(func() {
		t, err := ParseBookTable(booksYAML)
		if err != nil {
			panic(err)
		}
		defaultBooks = t
	})
	return defaultBooks
}
