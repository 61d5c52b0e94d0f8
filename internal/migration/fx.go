package migration

import (
	"github.com/railzwaylabs/solarquote/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(cfg config.Config, conn *gorm.DB, log *zap.Logger) error {
		log = log.Named("migration")
		if !cfg.Database.IsPostgres() {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
			log.Info("schema migrated from models", zap.String("driver", cfg.Database.Driver))
			return nil
		}

		db, err := Open(cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := (Runner{Log: log}).Run(db); err != nil {
			return err
		}
		version, _ := LatestMigrationVersion()
		log.Info("schema migrated", zap.Uint("version", version))
		return nil
	}),
)
