package config

import (
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPolicyHolder),
	fx.Provide(func(h *PolicyHolder) quotedomain.PolicySource { return h }),
	fx.Invoke(watchPolicy),
)
