package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	_ "github.com/railzwaylabs/solarquote/docs"
	"github.com/railzwaylabs/solarquote/internal/authorization"
	authdomain "github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"github.com/railzwaylabs/solarquote/internal/bootstrap"
	"github.com/railzwaylabs/solarquote/internal/catalog"
	"github.com/railzwaylabs/solarquote/internal/catalog/fixture"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/events"
	"github.com/railzwaylabs/solarquote/internal/migration"
	"github.com/railzwaylabs/solarquote/internal/observability"
	"github.com/railzwaylabs/solarquote/internal/packagetemplate"
	"github.com/railzwaylabs/solarquote/internal/quote"
	"github.com/railzwaylabs/solarquote/internal/quotestore"
	"github.com/railzwaylabs/solarquote/internal/rebatezone"
	"github.com/railzwaylabs/solarquote/internal/redis"
	"github.com/railzwaylabs/solarquote/internal/seed"
	"github.com/railzwaylabs/solarquote/internal/server"
	"github.com/railzwaylabs/solarquote/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "solarquote",
		Short:         "Solar and battery quoting engine",
		Version:       readVersionFromEnv(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newServeCmd(),
		newAllCmd(),
		newSeedCmd(),
		newQuoteCmd(),
		newZonesCmd(),
		newAPIKeyCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and activate schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quoting API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		fixturePath string
		rawVars     []string
		note        string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load an HCL catalog fixture into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(rawVars)
			if err != nil {
				return err
			}
			f, err := fixture.Load(fixturePath, vars)
			if err != nil {
				return err
			}
			snap, err := f.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			var seeder *seed.Seeder
			app := fx.New(
				config.Module,
				observability.Module,
				fx.Provide(registerSnowflake),
				db.Module,
				catalog.Module,
				seed.Module,
				fx.Populate(&seeder),
				fx.NopLogger,
			)
			return withApp(app, func(ctx context.Context) error {
				summary, err := seeder.Catalog(ctx, snap, note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "catalog %s seeded: %d offers, %d extras, %d labor rates, %d multipliers\n",
					summary.Version, summary.Offers, summary.Extras, summary.LaborRates, summary.Multipliers)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "config/catalog.hcl", "HCL catalog fixture")
	cmd.Flags().StringArrayVar(&rawVars, "var", nil, "fixture variable override as name=value (repeatable)")
	cmd.Flags().StringVar(&note, "note", "", "note recorded with the catalog version")
	return cmd
}

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}

	var (
		name string
		role string
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new API key and print it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc authdomain.Service
			app := fx.New(
				config.Module,
				observability.Module,
				fx.Provide(registerSnowflake),
				db.Module,
				clock.Module,
				authorization.Module,
				fx.Populate(&svc),
				fx.NopLogger,
			)
			return withApp(app, func(ctx context.Context) error {
				raw, key, err := svc.Issue(ctx, name, authdomain.Role(strings.ToLower(strings.TrimSpace(role))))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id:   %s\nrole: %s\nkey:  %s\n", key.ID, key.Role, raw)
				return nil
			})
		},
	}
	issue.Flags().StringVar(&name, "name", "", "key owner")
	issue.Flags().StringVar(&role, "role", string(authdomain.RoleSales), "sales or analyst")
	_ = issue.MarkFlagRequired("name")

	cmd.AddCommand(issue)
	return cmd
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
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

// withApp starts app, runs fn and stops app again.
func withApp(app *fx.App, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()
	return fn(ctx)
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("SOLARQUOTE_VERSION")); v != "" {
		return v
	}
	return "dev"
}
