// @title           Solar Quote API
// @version         1.0
// @description     Solar and battery quoting, rebate and sizing API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"github.com/bwmarrin/snowflake"
	_ "github.com/railzwaylabs/solarquote/docs"
	"github.com/railzwaylabs/solarquote/internal/authorization"
	"github.com/railzwaylabs/solarquote/internal/bootstrap"
	"github.com/railzwaylabs/solarquote/internal/catalog"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/events"
	"github.com/railzwaylabs/solarquote/internal/observability"
	"github.com/railzwaylabs/solarquote/internal/packagetemplate"
	"github.com/railzwaylabs/solarquote/internal/quote"
	"github.com/railzwaylabs/solarquote/internal/quotestore"
	"github.com/railzwaylabs/solarquote/internal/rebatezone"
	"github.com/railzwaylabs/solarquote/internal/redis"
	"github.com/railzwaylabs/solarquote/internal/server"
	"github.com/railzwaylabs/solarquote/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		bootstrap.Module,

		catalog.Module,
		rebatezone.Module,
		quote.Module,
		quotestore.Module,
		events.Module,
		packagetemplate.Module,
		authorization.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
