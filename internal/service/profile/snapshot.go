package profile

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
)

// SnapshotStore holds the latest profile and stored-project snapshots. Reads
// are lock-free; stored values are never mutated after publication.
type SnapshotStore struct {
	profile  atomic.Pointer[domain.Profile]
	projects atomic.Pointer[[]domain.Project]

	mu        sync.RWMutex
	lastErr   error
	updatedAt time.Time
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Snapshot returns the current profile or nil when none is available.
func (s *SnapshotStore) Snapshot() *domain.Profile {
	return s.profile.Load()
}

// StoredProjects returns the current stored projects. Callers must not modify the slice.
func (s *SnapshotStore) StoredProjects() []domain.Project {
	projects := s.projects.Load()
	if projects == nil {
		return nil
	}
	return *projects
}

// SetProfile publishes a copy of profile and clears the last error.
func (s *SnapshotStore) SetProfile(profile *domain.Profile) {
	s.profile.Store(profile.Clone())

	s.mu.Lock()
	s.lastErr = nil
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// SetProjects publishes a copy of projects.
func (s *SnapshotStore) SetProjects(projects []domain.Project) {
	cloned := domain.CloneProjects(projects)
	s.projects.Store(&cloned)
}

// SetError records a failed fetch; the previous snapshot stays in place.
func (s *SnapshotStore) SetError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Restore publishes a profile recovered from a secondary source without
// clearing the fetch error.
func (s *SnapshotStore) Restore(profile *domain.Profile) {
	s.profile.Store(profile.Clone())
}

func (s *SnapshotStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *SnapshotStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
