package adapter

import (
	"fmt"
	"strings"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
)

const placeholderNA = "N/A"

// Fixed replies.
const (
	GreetingText   = "Hello! I am here to assist you with information about my portfolio. How can I help you today?"
	GoodbyeText    = "Thank you for visiting my portfolio. Goodbye and have a great day!"
	FallbackText   = "I'm sorry, I don't have an answer for that. Try asking about my skills, experience, or projects."
	IntroText      = "Hello! I am your Portfolio Assistant. Feel free to ask me about skills, experience, or projects."
	FetchErrorText = "Error fetching data. Please try again later."

	SkillsUnavailableText     = "My skills are currently unavailable."
	ExperienceUnavailableText = "Experience information is currently unavailable."
	EducationUnavailableText  = "Education information is currently unavailable."
	NoProjectsText            = "No projects available."
	NoDescriptionText         = "No description available."
)

// ResponseFormatter renders bot replies from profile data. Every method
// accepts a nil profile and degrades to placeholder text.
type ResponseFormatter struct{}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) FormatGreeting() string {
	return GreetingText
}

func (f *ResponseFormatter) FormatGoodbye() string {
	return GoodbyeText
}

func (f *ResponseFormatter) FormatFallback() string {
	return FallbackText
}

func (f *ResponseFormatter) FormatIntro() string {
	return IntroText
}

func (f *ResponseFormatter) FormatFetchError() string {
	return FetchErrorText
}

func (f *ResponseFormatter) FormatName(profile *domain.Profile) string {
	name := ""
	if profile != nil {
		name = profile.Name
	}
	return fmt.Sprintf("My name is %s. It's a pleasure to meet you.", util.OrPlaceholder(name, placeholderNA))
}

func (f *ResponseFormatter) FormatProfession(profile *domain.Profile) string {
	profession := ""
	if profile != nil {
		profession = profile.Profession
	}
	return fmt.Sprintf("I am a dedicated professional in the field of %s.", util.OrPlaceholder(profession, placeholderNA))
}

// FormatSkills joins the non-blank skills with ", ".
func (f *ResponseFormatter) FormatSkills(profile *domain.Profile) string {
	if profile == nil {
		return SkillsUnavailableText
	}

	skills := make([]string, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	if len(skills) == 0 {
		return SkillsUnavailableText
	}
	return fmt.Sprintf("I possess a range of skills, including: %s.", strings.Join(skills, ", "))
}

// FormatExperience renders one "<i>. <title> at <company> (<start> - <end>)"
// line per entry, in profile order.
func (f *ResponseFormatter) FormatExperience(profile *domain.Profile) string {
	if !profile.HasExperience() {
		return ExperienceUnavailableText
	}

	var sb strings.Builder
	for i, exp := range profile.Experiences {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s at %s (%s - %s)",
			i+1,
			util.OrPlaceholder(exp.JobTitle, placeholderNA),
			util.OrPlaceholder(exp.Company, placeholderNA),
			util.OrPlaceholder(exp.StartDate, placeholderNA),
			util.OrPlaceholder(exp.EndDate, placeholderNA),
		))
	}
	return sb.String()
}

func (f *ResponseFormatter) FormatEducation(profile *domain.Profile) string {
	if profile == nil || strings.TrimSpace(profile.Education.String()) == "" {
		return EducationUnavailableText
	}
	return fmt.Sprintf("I hold a degree in %s.", strings.TrimSpace(profile.Education.String()))
}

func (f *ResponseFormatter) FormatContact(profile *domain.Profile) string {
	var contact domain.Contact
	if profile != nil {
		contact = profile.Contact
	}
	return fmt.Sprintf("You can reach me via email at %s or by phone at %s.",
		util.OrPlaceholder(contact.Email, placeholderNA),
		util.OrPlaceholder(contact.Phone, placeholderNA),
	)
}

// FormatProjects renders numbered HTML blocks separated by a blank line.
func (f *ResponseFormatter) FormatProjects(projects []domain.Project) string {
	if len(projects) == 0 {
		return NoProjectsText
	}

	blocks := make([]string, 0, len(projects))
	for i, project := range projects {
		block, err := executeFormatterTemplate("project_block", newProjectView(i+1, project))
		if err != nil {
			block = fallbackProjectBlock(i+1, project)
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// QuickTags returns the predefined one-click questions.
func (f *ResponseFormatter) QuickTags() []domain.QuickTag {
	return []domain.QuickTag{
		{ID: "1", Label: "Skills", Query: "What skills do you have?"},
		{ID: "2", Label: "Experience", Query: "Tell me about your experience."},
		{ID: "3", Label: "Education", Query: "Tell me about your education."},
		{ID: "4", Label: "Projects", Query: "What projects have you worked on?"},
	}
}

func (f *ResponseFormatter) InfoBubbles() []domain.InfoBubble {
	return []domain.InfoBubble{
		{ID: "a", Text: "I'm here to help you with my portfolio."},
		{ID: "b", Text: "You can ask me about my skills, experience, or projects."},
		{ID: "c", Text: "Feel free to click on predefined tags for quick questions."},
		{ID: "d", Text: "I'm a virtual assistant designed to make information accessible!"},
	}
}

type projectFileView struct {
	URL  string
	Name string
}

type projectView struct {
	Index       int
	Title       string
	Description string
	Link        string
	Files       []projectFileView
}

func newProjectView(index int, project domain.Project) projectView {
	view := projectView{
		Index:       index,
		Title:       util.OrPlaceholder(project.Title, placeholderNA),
		Description: util.OrPlaceholder(project.Description, NoDescriptionText),
		Link:        EnsureScheme(project.Hyperlink),
	}
	for _, file := range project.Files {
		url := strings.TrimSpace(file.FileURL)
		if url == "" {
			continue
		}
		name := util.FirstNonEmpty(file.FileName, domain.FileNameFromURL(url), url)
		view.Files = append(view.Files, projectFileView{URL: url, Name: name})
	}
	return view
}

// fallbackProjectBlock is used only if the embedded template fails to load.
func fallbackProjectBlock(index int, project domain.Project) string {
	view := newProjectView(index, project)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. %s\n%s", view.Index, view.Title, view.Description))
	if view.Link != "" {
		sb.WriteString("\n" + view.Link)
	}
	for _, file := range view.Files {
		sb.WriteString(fmt.Sprintf("\n%s: %s", file.Name, file.URL))
	}
	return sb.String()
}
