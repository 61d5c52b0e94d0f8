package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type multiplierSeed struct {
	ID        int64
	Dimension string
	Key       string
	Factor    string
}

// Baseline labor multipliers. Existing rows are left untouched so installers
// can tune them after the first migration.
var multiplierSeeds = []multiplierSeed{
	{1, "roof", "tin", "1.000"},
	{2, "roof", "tile", "1.100"},
	{3, "roof", "klip_lok", "1.050"},
	{4, "roof", "flat", "1.150"},
	{5, "storeys", "1", "1.000"},
	{6, "storeys", "2", "1.150"},
	{7, "storeys", "3", "1.300"},
}

func seedReferenceData(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("reference seed requires database handle")
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin reference seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range multiplierSeeds {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO labor_multipliers (id, dimension, key, factor)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (dimension, key) DO NOTHING
		`, m.ID, m.Dimension, m.Key, m.Factor); err != nil {
			return fmt.Errorf("seed labor multiplier %s/%s: %w", m.Dimension, m.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reference seed transaction: %w", err)
	}
	return nil
}
