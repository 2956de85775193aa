package nlu

import (
	"regexp"
	"strings"
	"sync"

	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
)

// MatchMode decides how a phrase is located inside a query. Normalizer and
// resolver must share one mode so that a rewritten key is found again.
type MatchMode string

const (
	// MatchSubstring treats any substring occurrence as a hit ("works" inside "frameworks").
	MatchSubstring MatchMode = "substring"
	// MatchWord only accepts occurrences bounded by non-word characters.
	MatchWord MatchMode = "word"
)

func (m MatchMode) String() string {
	return string(m)
}

func (m MatchMode) IsValid() bool {
	return m == MatchSubstring || m == MatchWord
}

// ParseMatchMode falls back to MatchSubstring for unknown values.
func ParseMatchMode(raw string) MatchMode {
	mode := MatchMode(util.Normalize(raw))
	if mode.IsValid() {
		return mode
	}
	return MatchSubstring
}

// Contains reports whether phrase occurs in text. An empty phrase never matches.
func (m MatchMode) Contains(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	if m == MatchWord {
		return wordPattern(phrase).MatchString(text)
	}
	return strings.Contains(text, phrase)
}

// ReplaceFirst replaces the first occurrence of phrase in text.
func (m MatchMode) ReplaceFirst(text, phrase, replacement string) string {
	if phrase == "" {
		return text
	}
	if m == MatchWord {
		loc := wordPattern(phrase).FindStringIndex(text)
		if loc == nil {
			return text
		}
		return text[:loc[0]] + replacement + text[loc[1]:]
	}
	return strings.Replace(text, phrase, replacement, 1)
}

var wordPatterns sync.Map // map[string]*regexp.Regexp

func wordPattern(phrase string) *regexp.Regexp {
	if cached, ok := wordPatterns.Load(phrase); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
	actual, _ := wordPatterns.LoadOrStore(phrase, re)
	return actual.(*regexp.Regexp)
}
