package nlu

import (
	"strings"
)

// Normalizer rewrites informal phrasings onto canonical intent keys.
type Normalizer struct {
	table *SynonymTable
	mode  MatchMode
}

// NewNormalizer returns a Normalizer over table. A nil table uses DefaultSynonymTable.
func NewNormalizer(table *SynonymTable, mode MatchMode) *Normalizer {
	if table == nil {
		table = DefaultSynonymTable()
	}
	if !mode.IsValid() {
		mode = MatchSubstring
	}
	return &Normalizer{table: table, mode: mode}
}

func (n *Normalizer) Mode() MatchMode {
	return n.mode
}

func (n *Normalizer) Table() *SynonymTable {
	return n.table
}

// Normalize lower-cases query, then walks the table in order replacing the
// first occurrence of every phrase with its key. Replacements chain: each one
// sees the text produced by the ones before it.
func (n *Normalizer) Normalize(query string) string {
	if query == "" {
		return query
	}

	text := strings.ToLower(query)
	for _, group := range n.table.groups {
		key := group.Key.String()
		for _, phrase := range group.Phrases {
			if n.mode.Contains(text, phrase) {
				text = n.mode.ReplaceFirst(text, phrase, key)
			}
		}
	}
	return text
}

// Normalize applies table with substring matching.
func Normalize(query string, table *SynonymTable) string {
	return NewNormalizer(table, MatchSubstring).Normalize(query)
}
