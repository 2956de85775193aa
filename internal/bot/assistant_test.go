package bot

import (
	stderrors "errors"
	"testing"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/stretchr/testify/assert"
)

type fakeProfiles struct {
	profile *domain.Profile
	err     error
}

func (f *fakeProfiles) Snapshot() *domain.Profile { return f.profile }

func (f *fakeProfiles) LastError() error { return f.err }

type fakeProjects struct {
	projects []domain.Project
}

func (f *fakeProjects) StoredProjects() []domain.Project { return f.projects }

func testProfile() *domain.Profile {
	return &domain.Profile{
		Name:       "Ada Lovelace",
		Profession: "Software Engineering",
		Skills:     domain.SkillList{"Go", "Rust"},
		Experiences: []domain.Experience{
			{JobTitle: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "2022"},
			{JobTitle: "Lead", Company: "Globex", StartDate: "2022", EndDate: "Present"},
		},
		Education: "Computer Science",
		Projects:  []domain.Project{{Title: "Profile Project"}},
		Contact:   domain.Contact{Email: "ada@example.com", Phone: "555-0100"},
	}
}

func TestAssistant_Answer(t *testing.T) {
	a := NewAssistant(Dependencies{Profiles: &fakeProfiles{profile: testProfile()}})

	tests := []struct {
		query string
		want  string
	}{
		{"Hello!", adapter.GreetingText},
		{"What are your abilities?", "I possess a range of skills, including: Go, Rust."},
		{"Tell me about your academic background", "I hold a degree in Computer Science."},
		{"What do you do?", "I am a dedicated professional in the field of Software Engineering."},
		{"How can I get in touch?", "You can reach me via email at ada@example.com or by phone at 555-0100."},
		{"See you later", adapter.GoodbyeText},
		{"xyz", adapter.FallbackText},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Answer(tt.query))
		})
	}
}

func TestAssistant_ExperienceLines(t *testing.T) {
	a := NewAssistant(Dependencies{Profiles: &fakeProfiles{profile: testProfile()}})

	assert.Equal(t,
		"1. Engineer at Acme (2020 - 2022)\n2. Lead at Globex (2022 - Present)",
		a.Answer("work history"))
}

func TestAssistant_SynonymResolvesLikeKey(t *testing.T) {
	a := NewAssistant(Dependencies{Profiles: &fakeProfiles{profile: testProfile()}})

	for _, group := range nlu.DefaultSynonymTable().Groups() {
		want := a.Answer(group.Key.String())
		for _, phrase := range group.Phrases {
			assert.Equal(t, want, a.Answer("tell me about "+phrase), "phrase %q", phrase)
		}
	}
}

func TestAssistant_ProjectsPreferStoredList(t *testing.T) {
	profiles := &fakeProfiles{profile: testProfile()}
	projects := &fakeProjects{}
	a := NewAssistant(Dependencies{Profiles: profiles, Projects: projects})

	assert.Contains(t, a.Answer("projects"), "Profile Project")

	projects.projects = []domain.Project{{Title: "Stored Project"}}
	got := a.Answer("projects")
	assert.Contains(t, got, "Stored Project")
	assert.NotContains(t, got, "Profile Project")
}

func TestAssistant_AbsentProfile(t *testing.T) {
	a := NewAssistant(Dependencies{Profiles: &fakeProfiles{}})

	assert.Equal(t, adapter.SkillsUnavailableText, a.Answer("skills"))
	assert.Equal(t, adapter.NoProjectsText, a.Answer("projects"))
	assert.Equal(t, adapter.GreetingText, a.Answer("hi"))
	assert.False(t, a.FetchFailed())
}

func TestAssistant_FetchFailed(t *testing.T) {
	profiles := &fakeProfiles{err: stderrors.New("connection refused")}
	a := NewAssistant(Dependencies{Profiles: profiles})
	assert.True(t, a.FetchFailed())

	profiles.profile = testProfile()
	assert.False(t, a.FetchFailed())

	assert.False(t, NewAssistant(Dependencies{}).FetchFailed())
}

func TestAssistant_OnAnswer(t *testing.T) {
	var seen []domain.IntentKey
	a := NewAssistant(Dependencies{OnAnswer: func(key domain.IntentKey) { seen = append(seen, key) }})

	key, _ := a.AnswerWithIntent("skills and experience")
	assert.Equal(t, domain.IntentSkills, key)
	a.Answer("xyz")

	assert.Equal(t, []domain.IntentKey{domain.IntentSkills, domain.IntentUnknown}, seen)
}

func TestAssistant_WordModeKeepsRegistryInStep(t *testing.T) {
	a := NewAssistant(Dependencies{Normalizer: nlu.NewNormalizer(nil, nlu.MatchWord)})

	assert.Equal(t, adapter.FallbackText, a.Answer("what is this"))
	assert.Equal(t, adapter.NoProjectsText, a.Answer("your works"))
}
