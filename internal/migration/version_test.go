package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestMigrationVersion(t *testing.T) {
	version, err := LatestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
}

func TestMigrationsChecksumIsStable(t *testing.T) {
	first, err := MigrationsChecksum()
	require.NoError(t, err)
	second, err := MigrationsChecksum()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestParseMigrationVersion(t *testing.T) {
	v, ok := parseMigrationVersion("000002_package_templates.up.sql")
	assert.True(t, ok)
	assert.Equal(t, uint(2), v)

	_, ok = parseMigrationVersion("init.up.sql")
	assert.False(t, ok)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestUpMigrationsOrdered(t *testing.T) {
	files, err := upMigrations()
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.version, f.name)
	}
	assert.NotZero(t, advisoryLockKey)
}
