package command

import (
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
)

// Snapshot is the data one resolution reads. Profile is nil when no profile
// could be fetched; Projects is the stored project list.
type Snapshot struct {
	Profile  *domain.Profile
	Projects []domain.Project
}

// Binding renders the reply for a matched intent. It is either a constant
// string or a template over the snapshot; the zero value renders "".
type Binding struct {
	text     string
	template func(Snapshot) string
}

// Constant returns a binding that always renders text.
func Constant(text string) Binding {
	return Binding{text: text}
}

// Template returns a binding that renders fn against the snapshot.
func Template(fn func(Snapshot) string) Binding {
	return Binding{template: fn}
}

func (b Binding) IsTemplate() bool {
	return b.template != nil
}

func (b Binding) Render(snap Snapshot) string {
	if b.template != nil {
		return b.template(snap)
	}
	return b.text
}
