package nlu

import (
	"strings"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
)

// SynonymGroup lists the alternate phrases that collapse onto one intent key.
type SynonymGroup struct {
	Key     domain.IntentKey
	Phrases []string
}

// SynonymTable is an insertion-ordered mapping of intent key to phrases.
// It is built once and never mutated; iteration order drives the chained
// replacements in Normalize.
type SynonymTable struct {
	groups []SynonymGroup
}

// NewSynonymTable copies the groups, lower-casing phrases and dropping blanks.
// A key given twice keeps its first position and gains the later phrases.
func NewSynonymTable(groups ...SynonymGroup) *SynonymTable {
	table := &SynonymTable{groups: make([]SynonymGroup, 0, len(groups))}
	index := make(map[domain.IntentKey]int, len(groups))

	for _, group := range groups {
		phrases := make([]string, 0, len(group.Phrases))
		for _, phrase := range group.Phrases {
			if p := strings.ToLower(strings.TrimSpace(phrase)); p != "" {
				phrases = append(phrases, p)
			}
		}

		if pos, ok := index[group.Key]; ok {
			table.groups[pos].Phrases = append(table.groups[pos].Phrases, phrases...)
			continue
		}
		index[group.Key] = len(table.groups)
		table.groups = append(table.groups, SynonymGroup{Key: group.Key, Phrases: phrases})
	}
	return table
}

// Groups returns a copy of the table in iteration order.
func (t *SynonymTable) Groups() []SynonymGroup {
	if t == nil {
		return nil
	}
	out := make([]SynonymGroup, len(t.groups))
	for i, group := range t.groups {
		out[i] = SynonymGroup{Key: group.Key, Phrases: append([]string(nil), group.Phrases...)}
	}
	return out
}

// Keys returns the intent keys in iteration order.
func (t *SynonymTable) Keys() []domain.IntentKey {
	if t == nil {
		return nil
	}
	keys := make([]domain.IntentKey, len(t.groups))
	for i, group := range t.groups {
		keys[i] = group.Key
	}
	return keys
}

// Phrases returns the phrases registered under key.
func (t *SynonymTable) Phrases(key domain.IntentKey) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	for _, group := range t.groups {
		if group.Key == key {
			return append([]string(nil), group.Phrases...), true
		}
	}
	return nil, false
}

// DefaultSynonymTable is the portfolio vocabulary. education precedes
// experience so "academic background" is claimed before "background" is
// rewritten to experience.
func DefaultSynonymTable() *SynonymTable {
	return NewSynonymTable(
		SynonymGroup{Key: domain.IntentHi, Phrases: []string{"hi", "hello", "greetings", "good morning", "good evening"}},
		SynonymGroup{Key: domain.IntentName, Phrases: []string{"name", "who are you", "introduce yourself"}},
		SynonymGroup{Key: domain.IntentProfession, Phrases: []string{"profession", "occupation", "what do you do", "career"}},
		SynonymGroup{Key: domain.IntentSkills, Phrases: []string{"skills", "abilities", "qualities", "tech stack"}},
		SynonymGroup{Key: domain.IntentEducation, Phrases: []string{"education", "qualifications", "academic background", "degree"}},
		SynonymGroup{Key: domain.IntentExperience, Phrases: []string{"experience", "background", "work history"}},
		SynonymGroup{Key: domain.IntentProjects, Phrases: []string{"projects", "works", "portfolio", "expertise"}},
		SynonymGroup{Key: domain.IntentContact, Phrases: []string{"contact", "reach", "get in touch", "email", "phone"}},
		SynonymGroup{Key: domain.IntentGoodbye, Phrases: []string{"goodbye", "see you", "farewell", "take care"}},
	)
}
