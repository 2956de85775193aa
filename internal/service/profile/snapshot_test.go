package profile

import (
	stderrors "errors"
	"testing"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	s := NewSnapshotStore()
	assert.Nil(t, s.Snapshot())
	assert.Nil(t, s.StoredProjects())
	assert.True(t, s.UpdatedAt().IsZero())

	original := &domain.Profile{Name: "Ada", Skills: domain.SkillList{"Go"}}
	s.SetProfile(original)
	original.Skills[0] = "mutated"

	require.NotNil(t, s.Snapshot())
	assert.Equal(t, "Go", s.Snapshot().Skills[0])
	assert.False(t, s.UpdatedAt().IsZero())

	s.SetError(stderrors.New("boom"))
	assert.Error(t, s.LastError())
	assert.Equal(t, "Ada", s.Snapshot().Name)

	s.SetProfile(&domain.Profile{Name: "Ada Lovelace"})
	assert.NoError(t, s.LastError())
}

func TestSnapshotStore_RestoreKeepsError(t *testing.T) {
	s := NewSnapshotStore()
	s.SetError(stderrors.New("unreachable"))
	s.Restore(&domain.Profile{Name: "Cached"})

	assert.Equal(t, "Cached", s.Snapshot().Name)
	assert.Error(t, s.LastError())
}

func TestSnapshotStore_Projects(t *testing.T) {
	s := NewSnapshotStore()
	projects := []domain.Project{{Title: "One", Files: []domain.ProjectFile{{FileURL: "a"}}}}
	s.SetProjects(projects)
	projects[0].Files[0].FileURL = "mutated"

	assert.Equal(t, "a", s.StoredProjects()[0].Files[0].FileURL)
}
