package rebatezone

import (
	"github.com/railzwaylabs/solarquote/internal/rebatezone/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rebatezone.service",
	fx.Provide(service.New),
)
