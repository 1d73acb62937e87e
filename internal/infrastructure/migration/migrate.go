// Package migration runs the versioned SQL migrations of the admin schema,
// scaffolds new migration files and seeds the service catalog.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrUnsupportedDriver is returned for databases golang-migrate is not wired for.
// SQLite schemas are created by GORM AutoMigrate instead.
var ErrUnsupportedDriver = errors.New("migrations require the postgres driver")

// Migrator applies the SQL files of a migrations directory
type Migrator struct {
	migrate *migrate.Migrate
	dir     string
	logger  *zap.Logger
}

// Status is one migration file and whether the database has it applied
type Status struct {
	Version uint
	Name    string
	Applied bool
}

// New creates a Migrator over an open postgres connection
func New(db *sql.DB, migrationsDir string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return newMigrator(m, migrationsDir, logger), nil
}

// Open creates a Migrator from the database section of the configuration
func Open(cfg *config.DatabaseConfig, migrationsDir string, logger *zap.Logger) (*Migrator, error) {
	if cfg.Driver != "postgres" {
		return nil, fmt.Errorf("%w (database.driver is %q)", ErrUnsupportedDriver, cfg.Driver)
	}
	m, err := migrate.New("file://"+migrationsDir, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return newMigrator(m, migrationsDir, logger), nil
}

func newMigrator(m *migrate.Migrate, dir string, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{migrate: m, dir: dir, logger: logger}
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.run("up", m.migrate.Up)
}

// Down rolls back every applied migration
func (m *Migrator) Down() error {
	return m.run("down", m.migrate.Down)
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("steps(%d)", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.run(fmt.Sprintf("goto(%d)", version), func() error { return m.migrate.Migrate(version) })
}

func (m *Migrator) run(op string, fn func() error) error {
	m.logger.Info("Running migration", zap.String("op", op))

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration finished",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the applied version; zero means nothing is applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Status lists the migration files with their applied flag
func (m *Migrator) Status() ([]Status, error) {
	current, _, err := m.Version()
	if err != nil {
		return nil, err
	}
	files, err := ListMigrations(m.dir)
	if err != nil {
		return nil, err
	}
	statuses := make([]Status, 0, len(files))
	for _, f := range files {
		statuses = append(statuses, Status{Version: f.Version, Name: f.Name, Applied: f.Version <= current})
	}
	return statuses, nil
}

// Force records version as applied without running anything. It clears the
// dirty flag left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table, the migrations table included
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping all tables")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}
