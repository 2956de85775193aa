package profile

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/database"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T, cfg RepositoryConfig) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(database.NewService(db, database.DriverPostgres, nil), cfg, nil), mock
}

func TestRepository_LoadPostgres(t *testing.T) {
	repo, mock := newMockRepository(t, RepositoryConfig{})
	assert.Equal(t, "cvData", repo.DocumentID())

	rows := sqlmock.NewRows([]string{"data"}).AddRow(
		[]byte(`{"name":"Ada","skills":[{"id":"1","name":"Go"},"Rust"],"education":[{"name":"BSc"}]}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM cv_data WHERE id = $1`)).
		WithArgs("cvData").
		WillReturnRows(rows)

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, domain.SkillList{"Go", "Rust"}, p.Skills)
	assert.Equal(t, domain.Education("BSc"), p.Education)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadMissingDocument(t *testing.T) {
	repo, mock := newMockRepository(t, RepositoryConfig{DocumentID: "other"})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM cv_data WHERE id = $1`)).
		WithArgs("other").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRepository_LoadErrors(t *testing.T) {
	repo, mock := newMockRepository(t, RepositoryConfig{})

	mock.ExpectQuery("SELECT data FROM cv_data").WillReturnError(stderrors.New("connection reset"))
	_, err := repo.Load(context.Background())
	var storeErr *errors.StoreError
	require.True(t, stderrors.As(err, &storeErr))

	mock.ExpectQuery("SELECT data FROM cv_data").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{not json`)))
	_, err = repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestRepository_SaveNotifies(t *testing.T) {
	repo, mock := newMockRepository(t, RepositoryConfig{NotifyChannel: "cv_data_changed"})

	mock.ExpectExec("INSERT INTO cv_data").
		WithArgs("cvData", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_notify($1, $2)`)).
		WithArgs("cv_data_changed", "cvData").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Save(context.Background(), &domain.Profile{Name: "Ada"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveValidates(t *testing.T) {
	repo, _ := newMockRepository(t, RepositoryConfig{})

	err := repo.Save(context.Background(), nil)
	var verr *errors.ValidationError
	assert.True(t, stderrors.As(err, &verr))
}

func TestRepository_SQLiteRoundTrip(t *testing.T) {
	dbSvc, err := database.NewSQLiteService(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbSvc.Close() })

	repo := NewRepository(dbSvc, RepositoryConfig{NotifyChannel: "ignored"}, nil)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.Save(ctx, &domain.Profile{Name: "Ada", Skills: domain.SkillList{"Go"}}))
	require.NoError(t, repo.Save(ctx, &domain.Profile{Name: "Ada Lovelace", Skills: domain.SkillList{"Go", "Rust"}}))

	p, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, domain.SkillList{"Go", "Rust"}, p.Skills)
}
