package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// NewSQLiteService opens an embedded profile store at path. ":memory:" keeps
// everything in process on a single connection.
func NewSQLiteService(path string, logger *zap.Logger) (*Service, error) {
	logger = util.LoggerOrNop(logger)
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
	}

	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one connection: single writer, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	logger.Info("SQLite opened", zap.String("path", path))

	return &Service{db: db, driver: DriverSQLite, dsn: path, logger: logger}, nil
}
