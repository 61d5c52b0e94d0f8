package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/railzwaylabs/solarquote/internal/catalog/fixture"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	quoteservice "github.com/railzwaylabs/solarquote/internal/quote/service"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	zoneservice "github.com/railzwaylabs/solarquote/internal/rebatezone/service"
	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"
)

// quoteFile is the JSON request read by the quote command. Dates are plain
// YYYY-MM-DD strings.
type quoteFile struct {
	quotedomain.Request
	InstallationDate string `json:"installation_date"`
}

type offlineQuote struct {
	catalogPath string
	vars        map[string]cty.Value
	internal    bool
	now         time.Time
}

func newQuoteCmd() *cobra.Command {
	var (
		catalogPath string
		requestPath string
		rawVars     []string
		internal    bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a JSON quote request against an HCL catalog without a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(rawVars)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if requestPath != "" && requestPath != "-" {
				f, err := os.Open(requestPath)
				if err != nil {
					return fmt.Errorf("open request: %w", err)
				}
				defer f.Close()
				in = f
			}

			q := offlineQuote{catalogPath: catalogPath, vars: vars, internal: internal, now: time.Now().UTC()}
			return q.run(cmd.Context(), cfg, in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "config/catalog.hcl", "HCL catalog fixture")
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "JSON request file, - for stdin")
	cmd.Flags().StringArrayVar(&rawVars, "var", nil, "fixture variable override as name=value (repeatable)")
	cmd.Flags().BoolVar(&internal, "internal", false, "print costs and margins instead of the customer view")
	return cmd
}

func (q offlineQuote) run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	policy, err := cfg.Engine.Policy()
	if err != nil {
		return err
	}
	catalog, err := fixture.Load(q.catalogPath, q.vars)
	if err != nil {
		return err
	}

	var body quoteFile
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	req := body.Request
	if raw := strings.TrimSpace(body.InstallationDate); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("installation_date %q must be formatted YYYY-MM-DD", raw)
		}
		req.InstallationDate = &d
	}

	svc := quoteservice.NewService(quoteservice.Params{
		Catalog:  catalog,
		Policy:   quotedomain.StaticPolicy(policy),
		Resolver: zoneservice.New(),
		Clock:    clock.Fixed(q.now),
		Log:      zap.NewNop(),
	})
	result, err := svc.Calculate(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if q.internal {
		return enc.Encode(result)
	}
	return enc.Encode(result.CustomerView())
}

func newZonesCmd() *cobra.Command {
	var (
		jurisdiction string
		postcode     string
	)
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List rebate zones or resolve the zone for a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printZones(cmd.OutOrStdout(), zoneservice.New(), jurisdiction, postcode)
		},
	}
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "state or territory to resolve")
	cmd.Flags().StringVar(&postcode, "postcode", "", "postcode to resolve")
	return cmd
}

func printZones(out io.Writer, resolver zonedomain.Resolver, jurisdiction, postcode string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if strings.TrimSpace(jurisdiction) == "" {
		fmt.Fprintln(w, "ZONE\tRATING")
		for _, z := range resolver.Zones() {
			fmt.Fprintf(w, "%d\t%.1f\n", z.Zone, z.Rating)
		}
		return w.Flush()
	}

	res, err := resolver.Resolve(zonedomain.SiteLocation{Jurisdiction: jurisdiction, Postcode: postcode})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "JURISDICTION\tPOSTCODE\tZONE\tRATING\tAPPROXIMATE")
	fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%t\n", res.Jurisdiction, res.Postcode, res.Zone, res.Rating, res.Approximate)
	if res.Reason != "" {
		fmt.Fprintf(w, "\n%s\n", res.Reason)
	}
	return w.Flush()
}

func parseVars(raw []string) (map[string]cty.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	vars := make(map[string]cty.Value, len(raw))
	for _, r := range raw {
		name, value, err := fixture.ParseVariable(r)
		if err != nil {
			return nil, err
		}
		vars[name] = value
	}
	return vars, nil
}
