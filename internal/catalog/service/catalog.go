package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnversionedCatalog is reported when no catalog version has been recorded.
const UnversionedCatalog = "unversioned"

type Params struct {
	fx.In

	DB   *gorm.DB
	Repo domain.Repository
	Log  *zap.Logger
}

type Service struct {
	db   *gorm.DB
	repo domain.Repository
	log  *zap.Logger
}

func NewService(p Params) *Service {
	return &Service{
		db:   p.DB,
		repo: p.Repo,
		log:  p.Log.Named("catalog.service"),
	}
}

// Snapshot reads offers, labor and extras in one read-only transaction so a
// quote never mixes two catalog versions.
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := s.repo.CurrentVersion(ctx, tx)
		if err != nil {
			return err
		}
		if version == "" {
			version = UnversionedCatalog
		}
		snap.Version = version

		if snap.Offers, err = s.repo.ListOffers(ctx, tx); err != nil {
			return err
		}
		if snap.Extras, err = s.repo.ListExtras(ctx, tx); err != nil {
			return err
		}
		snap.Labor, err = s.repo.LoadLaborRates(ctx, tx)
		return err
	}, s.txOptions())
	if err != nil {
		return nil, s.unavailable(err)
	}
	if snap.Labor == nil {
		return nil, apperr.CatalogUnavailable("load labor rates", domain.ErrMissingLaborRates)
	}
	return &snap, nil
}

func (s *Service) txOptions() *sql.TxOptions {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

func (s *Service) unavailable(err error) error {
	fields := []zap.Field{zap.Error(err), zap.Bool("timeout", pgconn.Timeout(err))}

	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	switch {
	case errors.As(err, &pgErr):
		fields = append(fields, zap.String("sqlstate", pgErr.Code), zap.String("table", pgErr.TableName))
	case errors.As(err, &connErr):
		fields = append(fields, zap.String("reason", "connect"))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		fields = append(fields, zap.String("reason", "context"))
	}
	s.log.Warn("catalog snapshot failed", fields...)

	return apperr.CatalogUnavailable("load snapshot", err)
}
