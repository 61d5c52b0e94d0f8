package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/packagetemplate/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Quote quotedomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	quote quotedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("packagetemplate.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		quote: p.Quote,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.SystemSizeKw <= 0 {
		return nil, domain.ErrInvalidSystemSize
	}
	if req.BatterySizeKwh < 0 {
		return nil, domain.ErrInvalidBattery
	}

	code := strings.TrimSpace(req.Slug)
	if code == "" {
		code = name
	}
	code = slug.Make(code)
	if code == "" {
		return nil, domain.ErrInvalidSlug
	}

	existing, err := s.repo.FindBySlug(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugTaken
	}

	panelID, err := offerID("panel_id", req.PanelID)
	if err != nil {
		return nil, err
	}
	inverterID, err := offerID("inverter_id", req.InverterID)
	if err != nil {
		return nil, err
	}
	batteryID, err := offerID("battery_id", req.BatteryID)
	if err != nil {
		return nil, err
	}

	extras := make([]string, 0, len(req.Extras))
	for _, e := range req.Extras {
		if e = strings.TrimSpace(e); e != "" {
			extras = append(extras, e)
		}
	}
	rawExtras, err := json.Marshal(extras)
	if err != nil {
		return nil, err
	}

	var description *string
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			description = &d
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now(ctx).UTC()
	tmpl := &domain.Template{
		ID:             s.genID.Generate(),
		Name:           name,
		Slug:           code,
		Description:    description,
		SystemSizeKw:   req.SystemSizeKw,
		BatterySizeKwh: req.BatterySizeKwh,
		PanelID:        panelID,
		InverterID:     inverterID,
		BatteryID:      batteryID,
		Extras:         datatypes.JSON(rawExtras),
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, s.db, tmpl); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("package template created", zap.String("slug", tmpl.Slug), zap.String("id", tmpl.ID.String()))
	return toResponse(tmpl)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		r, err := toResponse(&items[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Response, error) {
	tmpl, err := s.find(ctx, code)
	if err != nil {
		return nil, err
	}
	return toResponse(tmpl)
}

// QuoteTemplate prices an active template through the quote service.
func (s *Service) QuoteTemplate(ctx context.Context, req domain.QuoteRequest) (*quotedomain.Result, error) {
	tmpl, err := s.find(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if !tmpl.Active {
		return nil, apperr.NotFound("package_template", tmpl.Slug)
	}

	var extras []string
	if len(tmpl.Extras) > 0 {
		if err := json.Unmarshal(tmpl.Extras, &extras); err != nil {
			return nil, fmt.Errorf("template %s extras: %w", tmpl.Slug, err)
		}
	}

	return s.quote.Calculate(ctx, quotedomain.Request{
		Site:           req.Site,
		SystemSizeKw:   tmpl.SystemSizeKw,
		BatterySizeKwh: tmpl.BatterySizeKwh,
		PanelID:        idString(tmpl.PanelID),
		InverterID:     idString(tmpl.InverterID),
		BatteryID:      idString(tmpl.BatteryID),
		Extras:         extras,
		Installation:   req.Installation,
		Mode:           req.Mode,
		Usage:          req.Usage,
	})
}

func (s *Service) find(ctx context.Context, code string) (*domain.Template, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidSlug
	}
	tmpl, err := s.repo.FindBySlug(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperr.NotFound("package_template", code)
	}
	return tmpl, nil
}

func offerID(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return nil, apperr.Validation(field, "must be a catalog offer id")
	}
	v := id.Int64()
	return &v, nil
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return snowflake.ID(*id).String()
}

func toResponse(t *domain.Template) (*domain.Response, error) {
	extras := []string{}
	if len(t.Extras) > 0 {
		if err := json.Unmarshal(t.Extras, &extras); err != nil {
			return nil, fmt.Errorf("template %s extras: %w", t.Slug, err)
		}
	}
	return &domain.Response{
		ID:             t.ID.String(),
		Name:           t.Name,
		Slug:           t.Slug,
		Description:    t.Description,
		SystemSizeKw:   t.SystemSizeKw,
		BatterySizeKwh: t.BatterySizeKwh,
		PanelID:        idString(t.PanelID),
		InverterID:     idString(t.InverterID),
		BatteryID:      idString(t.BatteryID),
		Extras:         extras,
		Active:         t.Active,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}, nil
}
