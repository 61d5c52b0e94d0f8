package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	authdomain "github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/events"
	"github.com/railzwaylabs/solarquote/internal/observability"
	templatedomain "github.com/railzwaylabs/solarquote/internal/packagetemplate/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	Engine      *gin.Engine
	Gatherer    prometheus.Gatherer
	Clock       clock.Clock
	Policy      quotedomain.PolicySource
	Resolver    zonedomain.Resolver
	QuoteSvc    quotedomain.Service
	Store       storedomain.Store
	Events      events.Publisher
	TemplateSvc templatedomain.Service
	AuthSvc     authdomain.Service    `optional:"true"`
	DB          *gorm.DB              `optional:"true"`
	Redis       redis.UniversalClient `optional:"true"`
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	engine      *gin.Engine
	gatherer    prometheus.Gatherer
	clock       clock.Clock
	policy      quotedomain.PolicySource
	resolver    zonedomain.Resolver
	quoteSvc    quotedomain.Service
	store       storedomain.Store
	events      events.Publisher
	templateSvc templatedomain.Service
	authSvc     authdomain.Service
	db          *gorm.DB
	redis       redis.UniversalClient
}

func NewServer(p Params) *Server {
	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	} else {
		gatherer = prometheus.Gatherers{gatherer, prometheus.DefaultGatherer}
	}
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		engine:      p.Engine,
		gatherer:    gatherer,
		clock:       p.Clock,
		policy:      p.Policy,
		resolver:    p.Resolver,
		quoteSvc:    p.QuoteSvc,
		store:       p.Store,
		events:      p.Events,
		templateSvc: p.TemplateSvc,
		authSvc:     p.AuthSvc,
		db:          p.DB,
		redis:       p.Redis,
	}
}

type EngineParams struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if !p.Cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := p.Log.Named("http")

	engine := gin.New()
	engine.Use(
		RequestID(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			AbortWithError(c, fmt.Errorf("panic: %v", recovered))
		}),
		AccessLog(log),
		ObserveRequests(p.Metrics),
	)
	engine.HandleMethodNotAllowed = true
	return engine
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	log = log.Named("http")

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			timeout := cfg.HTTP.ShutdownTimeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
