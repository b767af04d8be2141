package postgres

import (
	"embed"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/hbond-engine/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrateURL rewrites a postgres:// DSN for the golang-migrate pgx driver.
func migrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Migrate: apply all pending migrations
// ─────────────────────────────────────────────────────────────────────────────

// Migrate applies every pending migration and returns the resulting version.
// No pending migrations is not an error.
func Migrate(dsn string) (version uint, dirty bool, err error) {
	m, err := newMigrate(dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		v, _, _ := m.Version()
		return v, true, errors.Wrap(err, errors.ErrCodeDatabaseError,
			fmt.Sprintf("failed to run migrations (current version: %d)", v))
	}
	return versionOf(m)
}

// ─────────────────────────────────────────────────────────────────────────────
// Rollback: step migrations back
// ─────────────────────────────────────────────────────────────────────────────

// Rollback reverts steps migrations.
func Rollback(dsn string, steps int) error {
	if steps <= 0 {
		return errors.InvalidParam(fmt.Sprintf("steps must be greater than 0, got %d", steps))
	}
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeConflict, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, fmt.Sprintf("failed to roll back %d step(s)", steps))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MigrationStatus: current version and dirty flag
// ─────────────────────────────────────────────────────────────────────────────

// MigrationStatus reports the applied version.  A dirty database needs a
// manual fix before migrations can run again.
func MigrationStatus(dsn string) (version uint, dirty bool, err error) {
	m, err := newMigrate(dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()
	return versionOf(m)
}

func versionOf(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

//Personal.AI order the ending
