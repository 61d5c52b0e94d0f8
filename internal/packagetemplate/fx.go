package packagetemplate

import (
	"github.com/railzwaylabs/solarquote/internal/packagetemplate/repository"
	"github.com/railzwaylabs/solarquote/internal/packagetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("packagetemplate.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
