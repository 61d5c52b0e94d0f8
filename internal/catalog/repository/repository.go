package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListOffers(ctx context.Context, db *gorm.DB) ([]domain.HardwareOffer, error) {
	var rows []offerRow
	if err := db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	offers := make([]domain.HardwareOffer, 0, len(rows))
	for _, row := range rows {
		offer := domain.HardwareOffer{
			ID:            row.ID,
			SKU:           row.SKU,
			Kind:          domain.OfferKind(row.Kind),
			Manufacturer:  row.Manufacturer,
			Model:         row.Model,
			RatedOutput:   row.RatedOutput.InexactFloat64(),
			UnitCost:      row.UnitCost,
			RetailPrice:   row.RetailPrice,
			WarrantyYears: row.WarrantyYears,
			QualityTier:   domain.QualityTier(row.QualityTier),
			Active:        row.Active,
		}
		if len(row.BatterySpec) > 0 && string(row.BatterySpec) != "null" {
			var spec domain.BatterySpec
			if err := json.Unmarshal(row.BatterySpec, &spec); err != nil {
				return nil, fmt.Errorf("offer %s battery spec: %w", row.ID, err)
			}
			offer.Battery = &spec
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (r *repo) UpsertOffer(ctx context.Context, db *gorm.DB, offer domain.HardwareOffer) error {
	var spec datatypes.JSON
	if offer.Battery != nil {
		raw, err := json.Marshal(offer.Battery)
		if err != nil {
			return err
		}
		spec = raw
	}
	now := time.Now().UTC()
	row := offerRow{
		ID:            offer.ID,
		SKU:           offer.SKU,
		Kind:          string(offer.Kind),
		Manufacturer:  offer.Manufacturer,
		Model:         offer.Model,
		RatedOutput:   decimal.NewFromFloat(offer.RatedOutput),
		UnitCost:      offer.UnitCost,
		RetailPrice:   offer.RetailPrice,
		WarrantyYears: offer.WarrantyYears,
		QualityTier:   string(offer.QualityTier),
		Active:        offer.Active,
		BatterySpec:   spec,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "manufacturer", "model", "rated_output", "unit_cost", "retail_price",
			"warranty_years", "quality_tier", "active", "battery_spec", "updated_at",
		}),
	}).Create(&row).Error
}

func (r *repo) ListExtras(ctx context.Context, db *gorm.DB) ([]domain.Extra, error) {
	var rows []extraRow
	if err := db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	extras := make([]domain.Extra, 0, len(rows))
	for _, row := range rows {
		extras = append(extras, domain.Extra{
			ID:     row.ID,
			Code:   row.Code,
			Name:   row.Name,
			Cost:   row.Cost,
			Price:  row.Price,
			Active: row.Active,
		})
	}
	return extras, nil
}

func (r *repo) UpsertExtra(ctx context.Context, db *gorm.DB, extra domain.Extra) error {
	now := time.Now().UTC()
	row := extraRow{
		ID:        extra.ID,
		Code:      extra.Code,
		Name:      extra.Name,
		Cost:      extra.Cost,
		Price:     extra.Price,
		Active:    extra.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "cost", "price", "active", "updated_at"}),
	}).Create(&row).Error
}

func (r *repo) LoadLaborRates(ctx context.Context, db *gorm.DB) (*domain.LaborRates, error) {
	var rows []laborRateRow
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	byCode := make(map[domain.LaborCode]domain.LaborRate, len(rows))
	for _, row := range rows {
		byCode[domain.LaborCode(row.Code)] = domain.LaborRate{Cost: row.Cost, Price: row.Price}
	}
	for _, code := range domain.LaborCodes {
		if _, ok := byCode[code]; !ok {
			return nil, nil
		}
	}

	var multipliers []multiplierRow
	if err := db.WithContext(ctx).Find(&multipliers).Error; err != nil {
		return nil, err
	}

	rates := &domain.LaborRates{
		Base:              byCode[domain.LaborBase],
		PerPanel:          byCode[domain.LaborPerPanel],
		PerInverter:       byCode[domain.LaborPerInverter],
		BatteryBase:       byCode[domain.LaborBatteryBase],
		BatteryPerKwh:     byCode[domain.LaborBatteryPerKwh],
		RoofMultipliers:   map[string]decimal.Decimal{},
		StoreyMultipliers: map[int]decimal.Decimal{},
	}
	for _, m := range multipliers {
		switch domain.MultiplierDimension(m.Dimension) {
		case domain.DimensionRoof:
			rates.RoofMultipliers[m.Key] = m.Factor
		case domain.DimensionStoreys:
			var storeys int
			if _, err := fmt.Sscanf(m.Key, "%d", &storeys); err != nil {
				return nil, fmt.Errorf("storey multiplier key %q: %w", m.Key, err)
			}
			rates.StoreyMultipliers[storeys] = m.Factor
		}
	}
	return rates, nil
}

func (r *repo) UpsertLaborRate(ctx context.Context, db *gorm.DB, id snowflake.ID, code domain.LaborCode, rate domain.LaborRate) error {
	row := laborRateRow{ID: id, Code: string(code), Cost: rate.Cost, Price: rate.Price, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"cost", "price", "updated_at"}),
	}).Create(&row).Error
}

func (r *repo) UpsertMultiplier(ctx context.Context, db *gorm.DB, id snowflake.ID, dimension domain.MultiplierDimension, key string, factor decimal.Decimal) error {
	row := multiplierRow{ID: id, Dimension: string(dimension), Key: key, Factor: factor}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dimension"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"factor"}),
	}).Create(&row).Error
}

func (r *repo) CurrentVersion(ctx context.Context, db *gorm.DB) (string, error) {
	var row versionRow
	err := db.WithContext(ctx).Order("activated_at DESC").Order("id DESC").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Version, nil
}

func (r *repo) RecordVersion(ctx context.Context, db *gorm.DB, id snowflake.ID, version, note string) error {
	row := versionRow{ID: id, Version: version, Note: note, ActivatedAt: time.Now().UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"note", "activated_at"}),
	}).Create(&row).Error
}
