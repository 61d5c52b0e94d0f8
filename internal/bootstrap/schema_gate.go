package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/migration"
	"gorm.io/gorm"
)

var (
	ErrSchemaVersionMismatch  = errors.New("schema version mismatch")
	ErrSchemaChecksumMismatch = errors.New("schema checksum mismatch")
	ErrSchemaTableMissing     = errors.New("schema table missing")
)

// requiredTables must exist before the API can serve quotes.
var requiredTables = []string{
	"hardware_offers",
	"labor_rates",
	"labor_multipliers",
	"extras",
	"catalog_versions",
	"package_templates",
	"api_keys",
}

type SchemaGate interface {
	MustBeActive(ctx context.Context) error
}

type schemaGate struct {
	db               *gorm.DB
	checkState       bool
	expectedVersion  string
	expectedChecksum string
}

// NewSchemaGate checks the recorded migration state on postgres. Other drivers
// are migrated from models, so only the tables are checked.
func NewSchemaGate(cfg config.Config, db *gorm.DB) (SchemaGate, error) {
	return newSchemaGate(db, cfg.Database.IsPostgres())
}

func newSchemaGate(db *gorm.DB, checkState bool) (*schemaGate, error) {
	if db == nil {
		return nil, errors.New("schema gate requires database handle")
	}
	gate := &schemaGate{db: db, checkState: checkState}
	if !checkState {
		return gate, nil
	}

	latestVersion, err := migration.LatestMigrationVersion()
	if err != nil {
		return nil, err
	}
	checksum, err := migration.MigrationsChecksum()
	if err != nil {
		return nil, err
	}
	gate.expectedVersion = fmt.Sprintf("%d", latestVersion)
	gate.expectedChecksum = checksum
	return gate, nil
}

func (g *schemaGate) MustBeActive(ctx context.Context) error {
	if !g.checkState {
		migrator := g.db.WithContext(ctx).Migrator()
		for _, table := range requiredTables {
			if !migrator.HasTable(table) {
				return fmt.Errorf("%w: %s", ErrSchemaTableMissing, table)
			}
		}
		return nil
	}

	state, err := loadSchemaState(ctx, g.db)
	if err != nil {
		return err
	}
	if state.SchemaVersion != g.expectedVersion {
		return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaVersionMismatch, state.SchemaVersion, g.expectedVersion)
	}
	if state.Checksum != nil && strings.TrimSpace(*state.Checksum) != "" && *state.Checksum != g.expectedChecksum {
		return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaChecksumMismatch, *state.Checksum, g.expectedChecksum)
	}
	return nil
}
