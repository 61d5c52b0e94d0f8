package quotestore

import (
	"github.com/railzwaylabs/solarquote/internal/quotestore/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotestore.service",
	fx.Provide(service.NewStore),
)
