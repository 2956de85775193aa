package adapter

import (
	"strings"
	"testing"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Skills(t *testing.T) {
	f := NewResponseFormatter()

	assert.Equal(t, "I possess a range of skills, including: Go, Rust.",
		f.FormatSkills(&domain.Profile{Skills: domain.SkillList{"Go", " ", "Rust "}}))
	assert.Equal(t, SkillsUnavailableText, f.FormatSkills(&domain.Profile{}))
	assert.Equal(t, SkillsUnavailableText, f.FormatSkills(nil))
}

func TestFormatter_Experience(t *testing.T) {
	f := NewResponseFormatter()
	profile := &domain.Profile{Experiences: []domain.Experience{
		{JobTitle: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "2022"},
		{JobTitle: "Lead", Company: "Globex", StartDate: "2022"},
	}}

	got := f.FormatExperience(profile)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1. Engineer at Acme (2020 - 2022)", lines[0])
	assert.Equal(t, "2. Lead at Globex (2022 - N/A)", lines[1])

	assert.Equal(t, ExperienceUnavailableText, f.FormatExperience(&domain.Profile{}))
	assert.Equal(t, ExperienceUnavailableText, f.FormatExperience(nil))
}

func TestFormatter_Placeholders(t *testing.T) {
	f := NewResponseFormatter()

	assert.Equal(t, "My name is N/A. It's a pleasure to meet you.", f.FormatName(nil))
	assert.Equal(t, "I am a dedicated professional in the field of N/A.", f.FormatProfession(&domain.Profile{}))
	assert.Equal(t, "You can reach me via email at ada@example.com or by phone at N/A.",
		f.FormatContact(&domain.Profile{Contact: domain.Contact{Email: "ada@example.com"}}))
	assert.Equal(t, "I hold a degree in Computer Science.",
		f.FormatEducation(&domain.Profile{Education: "Computer Science"}))
	assert.Equal(t, EducationUnavailableText, f.FormatEducation(&domain.Profile{Education: "  "}))
}

func TestFormatter_Projects(t *testing.T) {
	f := NewResponseFormatter()

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, NoProjectsText, f.FormatProjects(nil))
	})

	t.Run("link without scheme", func(t *testing.T) {
		got := f.FormatProjects([]domain.Project{{Title: "Site", Hyperlink: "example.com"}})
		assert.Contains(t, got, `<strong>1. Site</strong><br/>`)
		assert.Contains(t, got, NoDescriptionText)
		assert.Contains(t, got, `href="https://example.com"`)
	})

	t.Run("link with scheme kept", func(t *testing.T) {
		got := f.FormatProjects([]domain.Project{{Title: "Site", Hyperlink: "http://example.com"}})
		assert.Contains(t, got, `href="http://example.com"`)
		assert.NotContains(t, got, "https://http")
	})

	t.Run("files and numbering", func(t *testing.T) {
		got := f.FormatProjects([]domain.Project{
			{Title: "One", Description: "first"},
			{Title: "Two", Description: "second", Files: []domain.ProjectFile{
				{FileURL: "https://cdn.example.com/a/report.pdf?sig=1"},
				{FileURL: "https://cdn.example.com/b.png", FileName: "Screenshot"},
				{FileURL: " "},
			}},
		})

		blocks := strings.Split(got, "\n\n")
		require.Len(t, blocks, 2)
		assert.Equal(t, "<strong>1. One</strong><br/>\nfirst", blocks[0])
		assert.Contains(t, blocks[1], "<strong>2. Two</strong>")
		assert.Contains(t, blocks[1], ">report.pdf</a>")
		assert.Contains(t, blocks[1], ">Screenshot</a>")
		assert.Equal(t, 2, strings.Count(blocks[1], "<a "))
	})

	t.Run("escapes markup in titles", func(t *testing.T) {
		got := f.FormatProjects([]domain.Project{{Title: "<script>", Description: "x"}})
		assert.NotContains(t, got, "<script>")
	})
}

func TestFormatter_StaticContent(t *testing.T) {
	f := NewResponseFormatter()

	assert.Len(t, f.QuickTags(), 4)
	assert.Len(t, f.InfoBubbles(), 4)
	assert.Equal(t, IntroText, f.FormatIntro())
	assert.Equal(t, FetchErrorText, f.FormatFetchError())
}
