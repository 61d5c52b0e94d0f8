package bootstrap

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const schemaStateTable = "schema_state"

var ErrSchemaStateNotFound = errors.New("schema state not found")

// SchemaState is the row written by the migrate command after a successful run.
type SchemaState struct {
	SchemaVersion string    `gorm:"column:schema_version"`
	Checksum      *string   `gorm:"column:checksum"`
	ActivatedAt   time.Time `gorm:"column:activated_at"`
}

func loadSchemaState(ctx context.Context, db *gorm.DB) (*SchemaState, error) {
	if db == nil {
		return nil, errors.New("schema state requires database handle")
	}

	var state SchemaState
	result := db.WithContext(ctx).Table(schemaStateTable).
		Select("schema_version, checksum, activated_at").
		Where("id = ?", true).
		Limit(1).
		Scan(&state)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSchemaStateNotFound
	}

	state.SchemaVersion = strings.TrimSpace(state.SchemaVersion)
	if state.Checksum != nil {
		trimmed := strings.TrimSpace(*state.Checksum)
		state.Checksum = &trimmed
	}
	return &state, nil
}
