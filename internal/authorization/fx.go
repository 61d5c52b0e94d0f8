package authorization

import (
	"github.com/railzwaylabs/solarquote/internal/authorization/repository"
	"github.com/railzwaylabs/solarquote/internal/authorization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("authorization.service",
	fx.Provide(
		repository.Provide,
		service.NewEnforcer,
		service.New,
	),
)
