package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Service wraps the sql.DB holding the profile document.
type Service struct {
	db     *sql.DB
	driver string
	dsn    string
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the lib/pq connection string; pq.Listener reuses it.
func (c PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

func NewPostgresService(cfg PostgresConfig, logger *zap.Logger) (*Service, error) {
	logger = util.LoggerOrNop(logger)
	dsn := cfg.DSN()

	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &Service{db: db, driver: DriverPostgres, dsn: dsn, logger: logger}, nil
}

// NewService wraps an already opened handle, e.g. a sqlmock connection.
func NewService(db *sql.DB, driver string, logger *zap.Logger) *Service {
	return &Service{db: db, driver: driver, logger: util.LoggerOrNop(logger)}
}

func (s *Service) GetDB() *sql.DB {
	return s.db
}

func (s *Service) Driver() string {
	return s.driver
}

// DSN is empty for handles not opened by this package.
func (s *Service) DSN() string {
	return s.dsn
}

func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
