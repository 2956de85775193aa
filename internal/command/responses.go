package command

import (
	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
)

// NewDefaultRegistry registers the portfolio intents in precedence order:
// hi, name, profession, skills, experience, projects, education, contact, goodbye.
func NewDefaultRegistry(formatter *adapter.ResponseFormatter, mode nlu.MatchMode) *Registry {
	if formatter == nil {
		formatter = adapter.NewResponseFormatter()
	}

	r := NewRegistry(formatter.FormatFallback(), mode)
	r.Register(domain.IntentHi, Constant(formatter.FormatGreeting()))
	r.Register(domain.IntentName, Template(func(s Snapshot) string {
		return formatter.FormatName(s.Profile)
	}))
	r.Register(domain.IntentProfession, Template(func(s Snapshot) string {
		return formatter.FormatProfession(s.Profile)
	}))
	r.Register(domain.IntentSkills, Template(func(s Snapshot) string {
		return formatter.FormatSkills(s.Profile)
	}))
	r.Register(domain.IntentExperience, Template(func(s Snapshot) string {
		return formatter.FormatExperience(s.Profile)
	}))
	r.Register(domain.IntentProjects, Template(func(s Snapshot) string {
		return formatter.FormatProjects(s.Projects)
	}))
	r.Register(domain.IntentEducation, Template(func(s Snapshot) string {
		return formatter.FormatEducation(s.Profile)
	}))
	r.Register(domain.IntentContact, Template(func(s Snapshot) string {
		return formatter.FormatContact(s.Profile)
	}))
	r.Register(domain.IntentGoodbye, Constant(formatter.FormatGoodbye()))
	return r
}
