package config

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PolicyHolder serves the current pricing policy and swaps it atomically when
// the config file changes. A quote reads it once so a reload never mixes two
// policies in one result.
type PolicyHolder struct {
	current atomic.Pointer[quotedomain.Policy]
	log     *zap.Logger
}

func NewPolicyHolder(cfg Config, log *zap.Logger) (*PolicyHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &PolicyHolder{log: log.Named("config.policy")}
	if err := h.Update(cfg.Engine); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *PolicyHolder) Current() quotedomain.Policy {
	return *h.current.Load()
}

// Update validates engine and publishes it. The previous policy stays in
// place when validation fails.
func (h *PolicyHolder) Update(engine EngineConfig) error {
	policy, err := engine.Policy()
	if err != nil {
		return err
	}
	h.current.Store(&policy)
	return nil
}

// Reload re-reads the engine section from cfg's config file.
func (h *PolicyHolder) Reload(cfg Config) error {
	if cfg.v == nil {
		return fmt.Errorf("config was not loaded from viper")
	}
	if err := cfg.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var engine EngineConfig
	if err := cfg.v.UnmarshalKey("engine", &engine); err != nil {
		return fmt.Errorf("decode engine config: %w", err)
	}
	return h.Update(engine)
}

// Watch reloads the policy whenever the config file changes.
func (h *PolicyHolder) Watch(cfg Config) {
	if cfg.v == nil || cfg.ConfigFile() == "" {
		return
	}
	cfg.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var engine EngineConfig
		if err := cfg.v.UnmarshalKey("engine", &engine); err != nil {
			h.log.Warn("decode engine config failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := h.Update(engine); err != nil {
			h.log.Warn("rejected engine config", zap.String("file", e.Name), zap.Error(err))
			return
		}
		h.log.Info("engine policy reloaded", zap.String("file", e.Name))
	})
	cfg.v.WatchConfig()
	h.log.Info("watching config file", zap.String("file", cfg.ConfigFile()))
}

func watchPolicy(lc fx.Lifecycle, cfg Config, h *PolicyHolder) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			h.Watch(cfg)
			return nil
		},
	})
}
