package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/oklog/ulid/v2"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "solarquote:quote:"
	defaultTTL = 30 * 24 * time.Hour
)

type Params struct {
	fx.In

	Redis redis.UniversalClient
	Cfg   config.Config
	Clock clock.Clock
	Log   *zap.Logger
}

type store struct {
	redis redis.UniversalClient
	ttl   time.Duration
	clock clock.Clock
	log   *zap.Logger
}

func NewStore(p Params) storedomain.Store {
	ttl := p.Cfg.Redis.QuoteTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &store{
		redis: p.Redis,
		ttl:   ttl,
		clock: p.Clock,
		log:   p.Log.Named("quotestore.service"),
	}
}

func (s *store) Save(ctx context.Context, result *quotedomain.Result) (*storedomain.StoredQuote, error) {
	if result == nil {
		return nil, errors.New("save quote: nil result")
	}

	now := s.clock.Now(ctx).UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("generate quote id: %w", err)
	}

	stored := &storedomain.StoredQuote{
		ID:        id.String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Result:    result,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode quote: %w", err)
	}

	if err := s.redis.Set(ctx, keyPrefix+stored.ID, snappy.Encode(nil, raw), s.ttl).Err(); err != nil {
		s.log.Error("failed to store quote", zap.String("quote_id", stored.ID), zap.Error(err))
		return nil, fmt.Errorf("store quote: %w", err)
	}
	return stored, nil
}

func (s *store) Get(ctx context.Context, id string) (*storedomain.StoredQuote, error) {
	parsed, err := ulid.ParseStrict(strings.TrimSpace(id))
	if err != nil {
		return nil, storedomain.ErrInvalidQuoteID
	}
	id = parsed.String()

	compressed, err := s.redis.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("quote", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load quote: %w", err)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress quote %s: %w", id, err)
	}
	var stored storedomain.StoredQuote
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", id, err)
	}
	return &stored, nil
}
