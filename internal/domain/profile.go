package domain

import "strings"

// Profile is the biography/CV document the assistant answers questions about.
// It is read-only to the chatbot core; every answer works on one snapshot.
type Profile struct {
	Name        string       `json:"name"`
	Profession  string       `json:"profession,omitempty"`
	Skills      SkillList    `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   Education    `json:"education,omitempty"`
	Projects    []Project    `json:"projects"`
	Contact     Contact      `json:"contact"`
}

type Experience struct {
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"company"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Project struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Hyperlink   string        `json:"hyperlink,omitempty"`
	Files       []ProjectFile `json:"files,omitempty"`
}

type ProjectFile struct {
	FileURL  string `json:"fileURL"`
	FileName string `json:"fileName"`
}

type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// HasExperience reports whether at least one experience entry is present.
func (p *Profile) HasExperience() bool {
	return p != nil && len(p.Experiences) > 0
}

// Clone returns a deep copy so callers can hand snapshots out without sharing slices.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	out := *p
	out.Skills = append(SkillList(nil), p.Skills...)
	out.Experiences = append([]Experience(nil), p.Experiences...)
	out.Projects = CloneProjects(p.Projects)
	return &out
}

// CloneProjects deep-copies a project list including file attachments.
func CloneProjects(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i, project := range projects {
		out[i] = project
		out[i].Files = append([]ProjectFile(nil), project.Files...)
	}
	return out
}

// FileNameFromURL returns the last path segment of a file URL, ignoring any query string.
func FileNameFromURL(fileURL string) string {
	trimmed := fileURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
