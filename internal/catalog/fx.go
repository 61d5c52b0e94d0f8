package catalog

import (
	"github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/catalog/repository"
	"github.com/railzwaylabs/solarquote/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
		func(s *service.Service) domain.Catalog { return s },
	),
)
