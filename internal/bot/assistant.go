package bot

import (
	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/command"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"go.uber.org/zap"
)

// ProfileSource hands out the most recent profile snapshot. nil means no
// profile is available.
type ProfileSource interface {
	Snapshot() *domain.Profile
}

// ProjectSource hands out the stored project list.
type ProjectSource interface {
	StoredProjects() []domain.Project
}

// FetchStatus is optionally implemented by a ProfileSource that can report
// why it has no snapshot.
type FetchStatus interface {
	LastError() error
}

type Dependencies struct {
	Normalizer *nlu.Normalizer
	Registry   *command.Registry
	Formatter  *adapter.ResponseFormatter
	Profiles   ProfileSource
	Projects   ProjectSource
	Logger     *zap.Logger
	// OnAnswer is called with the resolved intent of every answer.
	OnAnswer func(domain.IntentKey)
}

// Assistant answers visitor questions: normalize, resolve against one
// snapshot, render.
type Assistant struct {
	normalizer *nlu.Normalizer
	registry   *command.Registry
	formatter  *adapter.ResponseFormatter
	profiles   ProfileSource
	projects   ProjectSource
	logger     *zap.Logger
	onAnswer   func(domain.IntentKey)
}

// NewAssistant fills missing collaborators with the defaults.
func NewAssistant(deps Dependencies) *Assistant {
	formatter := deps.Formatter
	if formatter == nil {
		formatter = adapter.NewResponseFormatter()
	}

	normalizer := deps.Normalizer
	registry := deps.Registry
	switch {
	case normalizer == nil && registry == nil:
		normalizer = nlu.NewNormalizer(nil, nlu.MatchSubstring)
		registry = command.NewDefaultRegistry(formatter, nlu.MatchSubstring)
	case normalizer == nil:
		normalizer = nlu.NewNormalizer(nil, registry.Mode())
	case registry == nil:
		registry = command.NewDefaultRegistry(formatter, normalizer.Mode())
	}

	return &Assistant{
		normalizer: normalizer,
		registry:   registry,
		formatter:  formatter,
		profiles:   deps.Profiles,
		projects:   deps.Projects,
		logger:     util.LoggerOrNop(deps.Logger),
		onAnswer:   deps.OnAnswer,
	}
}

// Answer maps raw visitor text to a reply. It never fails.
func (a *Assistant) Answer(raw string) string {
	_, text := a.AnswerWithIntent(raw)
	return text
}

// AnswerWithIntent is Answer that also reports which intent produced the reply.
func (a *Assistant) AnswerWithIntent(raw string) (domain.IntentKey, string) {
	normalized := a.normalizer.Normalize(raw)
	key, text := a.registry.ResolveIntent(normalized, a.snapshot())

	a.logger.Debug("Answered query",
		zap.String("query", util.TruncateString(raw, 80)),
		zap.String("normalized", util.TruncateString(normalized, 80)),
		zap.String("intent", key.String()),
	)
	if a.onAnswer != nil {
		a.onAnswer(key)
	}
	return key, text
}

// FetchFailed reports whether the profile source has no snapshot because its
// last fetch failed.
func (a *Assistant) FetchFailed() bool {
	if a.profiles == nil {
		return false
	}
	status, ok := a.profiles.(FetchStatus)
	if !ok {
		return false
	}
	return a.profiles.Snapshot() == nil && status.LastError() != nil
}

func (a *Assistant) Formatter() *adapter.ResponseFormatter {
	return a.formatter
}

// snapshot reads each source once. Stored projects win; the profile's own
// project list is used when nothing is stored.
func (a *Assistant) snapshot() command.Snapshot {
	var snap command.Snapshot
	if a.profiles != nil {
		snap.Profile = a.profiles.Snapshot()
	}
	if a.projects != nil {
		snap.Projects = a.projects.StoredProjects()
	}
	if len(snap.Projects) == 0 && snap.Profile != nil {
		snap.Projects = snap.Profile.Projects
	}
	return snap
}
