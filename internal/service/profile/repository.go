package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/database"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Repository reads and writes the profile document kept in the cv_data table
// as one JSON blob per document id.
type Repository struct {
	db            *sql.DB
	driver        string
	documentID    string
	notifyChannel string
	logger        *zap.Logger
}

type RepositoryConfig struct {
	DocumentID string
	// NotifyChannel receives a pg_notify after every save on postgres. Empty disables it.
	NotifyChannel string
}

func NewRepository(store *database.Service, cfg RepositoryConfig, logger *zap.Logger) *Repository {
	documentID := cfg.DocumentID
	if documentID == "" {
		documentID = "cvData"
	}
	return &Repository{
		db:            store.GetDB(),
		driver:        store.Driver(),
		documentID:    documentID,
		notifyChannel: cfg.NotifyChannel,
		logger:        util.LoggerOrNop(logger),
	}
}

func (r *Repository) DocumentID() string {
	return r.documentID
}

// EnsureSchema creates the cv_data table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS cv_data (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if r.driver == database.DriverPostgres {
		ddl = `
			CREATE TABLE IF NOT EXISTS cv_data (
				id         TEXT PRIMARY KEY,
				data       JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`
	}

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return errors.NewStoreError("failed to create cv_data table", r.driver, "schema", err)
	}
	return nil
}

// Load returns the stored profile, or nil when the document does not exist.
func (r *Repository) Load(ctx context.Context) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT data FROM cv_data WHERE id = %s`, r.placeholder(1))

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, r.documentID).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("failed to query profile document", r.driver, "load", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, errors.NewStoreError("failed to decode profile document", r.driver, "load", err)
	}
	return &profile, nil
}

// Save upserts the profile document and, on postgres, notifies listeners.
func (r *Repository) Save(ctx context.Context, profile *domain.Profile) error {
	if profile == nil {
		return errors.NewValidationError("profile is required", "profile", nil)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.NewStoreError("failed to encode profile document", r.driver, "save", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO cv_data (id, data, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, r.placeholder(1), r.placeholder(2))

	if _, err := r.db.ExecContext(ctx, query, r.documentID, string(raw)); err != nil {
		return errors.NewStoreError("failed to save profile document", r.driver, "save", err)
	}

	if r.driver == database.DriverPostgres && r.notifyChannel != "" {
		if _, err := r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, r.notifyChannel, r.documentID); err != nil {
			r.logger.Warn("Profile change notification failed",
				zap.String("channel", r.notifyChannel),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("Profile document saved",
		zap.String("document_id", r.documentID),
		zap.String("driver", r.driver),
	)
	return nil
}

func (r *Repository) placeholder(n int) string {
	if r.driver == database.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
