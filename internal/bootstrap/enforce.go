package bootstrap

import (
	"context"

	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnforceSchemaGate fails fast during application startup when the schema is not active.
func EnforceSchemaGate(lc fx.Lifecycle, gate SchemaGate) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return gate.MustBeActive(ctx)
		},
	})
}

// WarnUnseededCatalog logs at startup when no catalog version has been
// activated. Quotes still fail with catalog_unavailable until one is seeded.
func WarnUnseededCatalog(lc fx.Lifecycle, db *gorm.DB, repo catalogdomain.Repository, log *zap.Logger) {
	log = log.Named("bootstrap")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			version, err := repo.CurrentVersion(ctx, db)
			if err != nil {
				log.Warn("failed to read catalog version", zap.Error(err))
				return nil
			}
			if version == "" {
				log.Warn("catalog has not been seeded; run the seed command")
				return nil
			}
			log.Info("catalog active", zap.String("version", version))
			return nil
		},
	})
}
