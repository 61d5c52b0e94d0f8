package seed_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/catalog/fixture"
	"github.com/railzwaylabs/solarquote/internal/catalog/repository"
	catalogservice "github.com/railzwaylabs/solarquote/internal/catalog/service"
	"github.com/railzwaylabs/solarquote/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeeder(t *testing.T) (*seed.Seeder, *gorm.DB, catalogdomain.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := repository.Provide()
	return seed.New(seed.Params{DB: db, Repo: repo, GenID: node, Log: zap.NewNop()}), db, repo
}

func loadFixture(t *testing.T) *catalogdomain.Snapshot {
	t.Helper()
	f, err := fixture.Load("../catalog/fixture/testdata/catalog.hcl", nil)
	require.NoError(t, err)
	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func TestCatalogSeedsFixture(t *testing.T) {
	seeder, db, repo := newSeeder(t)
	snap := loadFixture(t)

	summary, err := seeder.Catalog(context.Background(), snap, "initial")
	require.NoError(t, err)
	assert.Equal(t, "2026.1", summary.Version)
	assert.Empty(t, summary.PreviousVersion)
	assert.Equal(t, len(snap.Offers), summary.Offers)
	assert.Equal(t, 1, summary.Extras)
	assert.Equal(t, 5, summary.LaborRates)
	assert.Equal(t, 4, summary.Multipliers)

	svc := catalogservice.NewService(catalogservice.Params{DB: db, Repo: repo, Log: zap.NewNop()})
	loaded, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026.1", loaded.Version)
	require.Len(t, loaded.Offers, len(snap.Offers))
	require.NotNil(t, loaded.Labor)
	assert.Equal(t, "900.00", loaded.Labor.Base.Price.StringFixed(2))
	assert.Equal(t, "1.10", loaded.Labor.RoofMultipliers["tile"].StringFixed(2))
	assert.Equal(t, "1.15", loaded.Labor.StoreyMultipliers[2].StringFixed(2))
}

func TestCatalogSeedIsRepeatable(t *testing.T) {
	seeder, db, repo := newSeeder(t)
	snap := loadFixture(t)

	_, err := seeder.Catalog(context.Background(), snap, "initial")
	require.NoError(t, err)
	summary, err := seeder.Catalog(context.Background(), snap, "again")
	require.NoError(t, err)
	assert.Equal(t, "2026.1", summary.PreviousVersion)

	offers, err := repo.ListOffers(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, offers, len(snap.Offers))

	var versions int64
	require.NoError(t, db.Table("catalog_versions").Count(&versions).Error)
	assert.Equal(t, int64(1), versions)
}

func TestCatalogNormalizesSKUs(t *testing.T) {
	seeder, db, repo := newSeeder(t)
	snap := loadFixture(t)
	snap.Offers[0].SKU = "pnl 440"

	_, err := seeder.Catalog(context.Background(), snap, "")
	require.NoError(t, err)

	offers, err := repo.ListOffers(context.Background(), db)
	require.NoError(t, err)
	skus := make([]string, 0, len(offers))
	for _, o := range offers {
		skus = append(skus, o.SKU)
	}
	assert.Contains(t, skus, "PNL-440")
}

func TestCatalogRejectsMissingVersion(t *testing.T) {
	seeder, _, _ := newSeeder(t)
	snap := loadFixture(t)
	snap.Version = " "

	_, err := seeder.Catalog(context.Background(), snap, "")
	assert.Error(t, err)
}
