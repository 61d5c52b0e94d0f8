// Package seed loads catalog fixtures into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Provide(New),
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Repo  catalogdomain.Repository
	GenID *snowflake.Node
	Log   *zap.Logger
}

type Seeder struct {
	db    *gorm.DB
	repo  catalogdomain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

// Summary reports what a seed run wrote.
type Summary struct {
	Version         string
	PreviousVersion string
	Offers          int
	Extras          int
	LaborRates      int
	Multipliers     int
}

func New(p Params) *Seeder {
	return &Seeder{
		db:    p.DB,
		repo:  p.Repo,
		genID: p.GenID,
		log:   p.Log.Named("seed"),
	}
}

// Catalog upserts every row of snap in one transaction and activates its
// version. Re-running the same fixture leaves the catalog unchanged.
func (s *Seeder) Catalog(ctx context.Context, snap *catalogdomain.Snapshot, note string) (Summary, error) {
	if s.db == nil {
		return Summary{}, errors.New("seed database handle is required")
	}
	if snap == nil {
		return Summary{}, errors.New("seed snapshot is required")
	}
	if err := snap.Validate(); err != nil {
		return Summary{}, fmt.Errorf("validate fixture: %w", err)
	}
	version := strings.TrimSpace(snap.Version)
	if version == "" {
		return Summary{}, errors.New("seed catalog version is required")
	}

	summary := Summary{Version: version}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		previous, err := s.repo.CurrentVersion(ctx, tx)
		if err != nil {
			return fmt.Errorf("read catalog version: %w", err)
		}
		summary.PreviousVersion = previous

		for _, offer := range snap.Offers {
			offer.SKU = normalizeSKU(offer.SKU)
			if offer.SKU == "" {
				offer.SKU = normalizeSKU(offer.Manufacturer + " " + offer.Model)
			}
			if offer.ID == 0 {
				offer.ID = s.genID.Generate()
			}
			if err := s.repo.UpsertOffer(ctx, tx, offer); err != nil {
				return fmt.Errorf("upsert offer %s: %w", offer.SKU, err)
			}
			summary.Offers++
		}

		for _, extra := range snap.Extras {
			if extra.ID == 0 {
				extra.ID = s.genID.Generate()
			}
			if err := s.repo.UpsertExtra(ctx, tx, extra); err != nil {
				return fmt.Errorf("upsert extra %s: %w", extra.Code, err)
			}
			summary.Extras++
		}

		if snap.Labor != nil {
			n, err := s.seedLabor(ctx, tx, snap.Labor)
			if err != nil {
				return err
			}
			summary.LaborRates = len(catalogdomain.LaborCodes)
			summary.Multipliers = n
		}

		if previous != version {
			if err := s.repo.RecordVersion(ctx, tx, s.genID.Generate(), version, note); err != nil {
				return fmt.Errorf("record catalog version: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.log.Info("catalog seeded",
		zap.String("version", summary.Version),
		zap.String("previous_version", summary.PreviousVersion),
		zap.Int("offers", summary.Offers),
		zap.Int("extras", summary.Extras),
		zap.Int("multipliers", summary.Multipliers),
	)
	return summary, nil
}

func (s *Seeder) seedLabor(ctx context.Context, tx *gorm.DB, labor *catalogdomain.LaborRates) (int, error) {
	rates := map[catalogdomain.LaborCode]catalogdomain.LaborRate{
		catalogdomain.LaborBase:          labor.Base,
		catalogdomain.LaborPerPanel:      labor.PerPanel,
		catalogdomain.LaborPerInverter:   labor.PerInverter,
		catalogdomain.LaborBatteryBase:   labor.BatteryBase,
		catalogdomain.LaborBatteryPerKwh: labor.BatteryPerKwh,
	}
	for _, code := range catalogdomain.LaborCodes {
		if err := s.repo.UpsertLaborRate(ctx, tx, s.genID.Generate(), code, rates[code]); err != nil {
			return 0, fmt.Errorf("upsert labor rate %s: %w", code, err)
		}
	}

	roofs := make([]string, 0, len(labor.RoofMultipliers))
	for roof := range labor.RoofMultipliers {
		roofs = append(roofs, roof)
	}
	sort.Strings(roofs)
	for _, roof := range roofs {
		if err := s.repo.UpsertMultiplier(ctx, tx, s.genID.Generate(), catalogdomain.DimensionRoof, roof, labor.RoofMultipliers[roof]); err != nil {
			return 0, fmt.Errorf("upsert roof multiplier %s: %w", roof, err)
		}
	}

	storeys := make([]int, 0, len(labor.StoreyMultipliers))
	for n := range labor.StoreyMultipliers {
		storeys = append(storeys, n)
	}
	sort.Ints(storeys)
	for _, n := range storeys {
		key := strconv.Itoa(n)
		if err := s.repo.UpsertMultiplier(ctx, tx, s.genID.Generate(), catalogdomain.DimensionStoreys, key, labor.StoreyMultipliers[n]); err != nil {
			return 0, fmt.Errorf("upsert storey multiplier %s: %w", key, err)
		}
	}
	return len(roofs) + len(storeys), nil
}

// normalizeSKU folds a SKU to its upper-case slug so "pnl 440" and "PNL-440"
// land on the same row.
func normalizeSKU(raw string) string {
	return strings.ToUpper(slug.Make(raw))
}
