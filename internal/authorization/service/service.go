package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	keyScheme    = "sq"
	prefixBytes  = 4
	secretBytes  = 24
	keySeparator = "_"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Enforcer *casbin.SyncedEnforcer
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	enforcer *casbin.SyncedEnforcer
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		enforcer: p.Enforcer,
	}
}

func (s *Service) Issue(ctx context.Context, name string, role domain.Role) (string, *domain.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, domain.ErrInvalidKeyName
	}
	if !role.Valid() {
		return "", nil, domain.ErrInvalidRole
	}

	prefix, err := randomHex(prefixBytes)
	if err != nil {
		return "", nil, err
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return "", nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash api key: %w", err)
	}

	key := &domain.APIKey{
		ID:        s.genID.Generate(),
		Name:      name,
		Role:      string(role),
		KeyPrefix: prefix,
		KeyHash:   string(hash),
		Active:    true,
		CreatedAt: s.clock.Now(ctx).UTC(),
	}
	if err := s.repo.Create(ctx, s.db, key); err != nil {
		return "", nil, err
	}

	s.log.Info("api key issued", zap.String("key_id", key.ID.String()), zap.String("role", key.Role))
	return strings.Join([]string{keyScheme, prefix, secret}, keySeparator), key, nil
}

func (s *Service) Authenticate(ctx context.Context, rawKey string) (*domain.Principal, error) {
	parts := strings.Split(strings.TrimSpace(rawKey), keySeparator)
	if len(parts) != 3 || parts[0] != keyScheme || parts[1] == "" || parts[2] == "" {
		return nil, domain.ErrUnauthorized
	}

	key, err := s.repo.FindByPrefix(ctx, s.db, parts[1])
	if err != nil {
		return nil, err
	}
	if key == nil || !key.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(parts[2])); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := s.repo.TouchLastUsed(ctx, s.db, key.ID, s.clock.Now(ctx).UTC()); err != nil {
		s.log.Warn("failed to record api key use", zap.String("key_id", key.ID.String()), zap.Error(err))
	}
	return &domain.Principal{KeyID: key.ID.String(), Name: key.Name, Role: domain.Role(key.Role)}, nil
}

func (s *Service) Authorize(role domain.Role, path, method string) (bool, error) {
	return s.enforcer.Enforce(string(role), path, strings.ToUpper(method))
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
