package models

import "strings"

// NormalizeSymbol uppercases a symbol text and collapses internal whitespace.
// All alias table lookups operate on normalized text.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// AliasEntry maps one canonical instrument to its known text variants.
// The company name counts as a variant for resolution purposes.
type AliasEntry struct {
	Symbol  string   `toml:"symbol" json:"symbol"`
	Name    string   `toml:"name" json:"name"`
	Aliases []string `toml:"aliases" json:"aliases,omitempty"`
}

// AliasCandidate is one normalized text variant inside the table, in table
// insertion order. Fuzzy matching iterates candidates in this order so that
// resolution is deterministic for a given table version.
type AliasCandidate struct {
	Text  string // normalized variant text
	Entry int    // index into the table's entries
}

// AliasTable is the process-wide symbol alias table. It is immutable after
// construction and carries a version id that is stamped into every analysis
// for reproducibility of resolution decisions. Multiple tables may coexist.
type AliasTable struct {
	version    string
	entries    []AliasEntry
	bySymbol   map[string]int
	byAlias    map[string]int
	candidates []AliasCandidate
}

// NewAliasTable builds an immutable table from ordered entries.
// On duplicate variants the earliest entry wins.
func NewAliasTable(version string, entries []AliasEntry) *AliasTable {
	t := &AliasTable{
		version:  version,
		entries:  entries,
		bySymbol: make(map[string]int, len(entries)),
		byAlias:  make(map[string]int),
	}

	for i, e := range entries {
		sym := NormalizeSymbol(e.Symbol)
		if _, exists := t.bySymbol[sym]; !exists {
			t.bySymbol[sym] = i
		}
		t.candidates = append(t.candidates, AliasCandidate{Text: sym, Entry: i})

		variants := make([]string, 0, len(e.Aliases)+1)
		if e.Name != "" {
			variants = append(variants, e.Name)
		}
		variants = append(variants, e.Aliases...)

		for _, v := range variants {
			norm := NormalizeSymbol(v)
			if norm == "" {
				continue
			}
			if _, exists := t.byAlias[norm]; !exists {
				t.byAlias[norm] = i
			}
			t.candidates = append(t.candidates, AliasCandidate{Text: norm, Entry: i})
		}
	}

	return t
}

// Version returns the table's version id.
func (t *AliasTable) Version() string {
	return t.version
}

// Len returns the number of canonical instruments in the table.
func (t *AliasTable) Len() int {
	return len(t.entries)
}

// Entry returns the entry at index i.
func (t *AliasTable) Entry(i int) AliasEntry {
	return t.entries[i]
}

// LookupSymbol finds an entry by normalized canonical symbol.
func (t *AliasTable) LookupSymbol(norm string) (AliasEntry, bool) {
	if i, ok := t.bySymbol[norm]; ok {
		return t.entries[i], true
	}
	return AliasEntry{}, false
}

// LookupAlias finds an entry by normalized alias or company name.
func (t *AliasTable) LookupAlias(norm string) (AliasEntry, bool) {
	if i, ok := t.byAlias[norm]; ok {
		return t.entries[i], true
	}
	return AliasEntry{}, false
}

// Candidates returns every normalized variant in table insertion order.
// Callers must not modify the returned slice.
func (t *AliasTable) Candidates() []AliasCandidate {
	return t.candidates
}
