package db

import (
	"embed"
	stderrors "errors"
	"fmt"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies all pending schema migrations.
func RunMigrations(cfg config.DatabaseConfig) error {
	log := logger.GetLogger()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.URL())
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnw("Closing migration source failed", "error", srcErr)
		}
		if dbErr != nil {
			log.Warnw("Closing migration database failed", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	log.Info("Database migrations applied")
	return nil
}
