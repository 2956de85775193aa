package domain

import (
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
)

// IntentKey is one canonical topic word shared by a synonym group and a response binding.
type IntentKey string

const (
	IntentHi         IntentKey = "hi"
	IntentName       IntentKey = "name"
	IntentProfession IntentKey = "profession"
	IntentSkills     IntentKey = "skills"
	IntentExperience IntentKey = "experience"
	IntentProjects   IntentKey = "projects"
	IntentEducation  IntentKey = "education"
	IntentContact    IntentKey = "contact"
	IntentGoodbye    IntentKey = "goodbye"
	IntentUnknown    IntentKey = "unknown"
)

// IntentKeys lists the closed set of intents in resolver declaration order.
// The first key found in a query wins, so this order is the precedence table.
var IntentKeys = []IntentKey{
	IntentHi,
	IntentName,
	IntentProfession,
	IntentSkills,
	IntentExperience,
	IntentProjects,
	IntentEducation,
	IntentContact,
	IntentGoodbye,
}

func (k IntentKey) String() string {
	return string(k)
}

func (k IntentKey) IsValid() bool {
	for _, key := range IntentKeys {
		if key == k {
			return true
		}
	}
	return false
}

// ParseIntentKey maps free text onto a known key, returning IntentUnknown otherwise.
func ParseIntentKey(raw string) IntentKey {
	key := IntentKey(util.Normalize(raw))
	if key.IsValid() {
		return key
	}
	return IntentUnknown
}
