package project

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/cache"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidProject is the cause of validation errors returned by Add.
var ErrInvalidProject = stderrors.New("invalid project data")

// InvalidProjectMessage is shown to the operator when Add rejects a project.
const InvalidProjectMessage = "Invalid project data. Please ensure all fields are filled."

// Store keeps the stored project list in a Redis list, in insertion order.
type Store struct {
	cache    *cache.CacheService
	key      string
	onChange func()
	logger   *zap.Logger
}

func NewStore(cacheSvc *cache.CacheService, logger *zap.Logger) *Store {
	return &Store{
		cache:  cacheSvc,
		key:    constants.CacheKeys.StoredProjects,
		logger: util.LoggerOrNop(logger),
	}
}

// OnChange registers fn to run after every successful Add or Delete.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

// List returns the stored projects. Entries that fail to decode are skipped.
func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	raws, err := s.cache.LRange(ctx, s.key)
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(raws))
	for _, raw := range raws {
		var p domain.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.logger.Warn("Skipping undecodable stored project", zap.Error(err))
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Add validates p, assigns an id and default file names, and appends it.
func (s *Store) Add(ctx context.Context, p domain.Project) (domain.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Hyperlink = strings.TrimSpace(p.Hyperlink)

	if p.Title == "" {
		return domain.Project{}, invalidProject("title", p.Title)
	}

	files := make([]domain.ProjectFile, 0, len(p.Files))
	for _, file := range p.Files {
		url := strings.TrimSpace(file.FileURL)
		if url == "" {
			continue
		}
		name := util.FirstNonEmpty(file.FileName, domain.FileNameFromURL(url))
		files = append(files, domain.ProjectFile{FileURL: url, FileName: name})
	}
	if len(files) == 0 {
		return domain.Project{}, invalidProject("fileURL", "")
	}
	p.Files = files

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if err := s.cache.RPush(ctx, s.key, p); err != nil {
		return domain.Project{}, err
	}

	s.logger.Info("Stored project added", zap.String("id", p.ID), zap.String("title", p.Title))
	s.notify()
	return p, nil
}

// Delete removes the project with id. It reports false when no project matched.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	raws, err := s.cache.LRange(ctx, s.key)
	if err != nil {
		return false, err
	}

	for _, raw := range raws {
		var p domain.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID != id {
			continue
		}
		removed, err := s.cache.LRem(ctx, s.key, raw)
		if err != nil {
			return false, err
		}
		if removed > 0 {
			s.logger.Info("Stored project deleted", zap.String("id", id))
			s.notify()
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func invalidProject(field string, value any) error {
	return errors.NewValidationError(InvalidProjectMessage, field, value).WithCause(ErrInvalidProject)
}
