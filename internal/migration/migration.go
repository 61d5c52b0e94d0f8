package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Open connects to the migration target with the lib/pq driver golang-migrate
// expects.
func Open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("migration dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded migrations, seeds the baseline labor
// multipliers and records the schema state the API checks at startup.
func RunMigrations(db *sql.DB) error {
	return Runner{Log: zap.NewNop()}.Run(db)
}

// Runner applies migrations under an advisory lock so concurrent deploys
// cannot interleave.
type Runner struct {
	Log     *zap.Logger
	Timeout time.Duration
}

func (r Runner) Run(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			r.Log.Warn("failed to release migration lock", zap.Error(err))
		}
	}()

	latest, err := LatestMigrationVersion()
	if err != nil {
		return err
	}
	checksum, err := MigrationsChecksum()
	if err != nil {
		return err
	}

	migrator, err := newMigrator(db, r.Log)
	if err != nil {
		return err
	}
	before, err := cleanVersion(migrator)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	after, err := cleanVersion(migrator)
	if err != nil {
		return err
	}
	if after != latest {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", after, latest)
	}
	r.Log.Info("migrations applied", zap.Uint("from", before), zap.Uint("to", after))

	if err := seedReferenceData(ctx, db); err != nil {
		return err
	}
	return recordSchemaState(ctx, db, fmt.Sprintf("%d", latest), checksum)
}

func newMigrator(db *sql.DB, log *zap.Logger) (*migrate.Migrate, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	migrator.Log = zapMigrateLogger{log: log.Named("golang-migrate")}
	return migrator, nil
}

// cleanVersion returns the applied version, or 0 before the first migration.
// A dirty schema needs manual repair and is reported as an error.
func cleanVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}

// zapMigrateLogger satisfies migrate.Logger.
type zapMigrateLogger struct {
	log *zap.Logger
}

func (l zapMigrateLogger) Printf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l zapMigrateLogger) Verbose() bool {
	return l.log.Core().Enabled(zap.DebugLevel)
}
