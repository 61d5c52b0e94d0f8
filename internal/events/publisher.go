// Package events announces saved quotes on NATS so downstream CRM and
// reporting consumers can follow quoting activity.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/railzwaylabs/solarquote/internal/config"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
)

// QuoteSaved is the payload published for every stored quote. It carries the
// customer-facing figures only.
type QuoteSaved struct {
	QuoteID         string          `json:"quote_id"`
	CatalogVersion  string          `json:"catalog_version"`
	Mode            string          `json:"mode"`
	Postcode        string          `json:"postcode"`
	Jurisdiction    string          `json:"jurisdiction"`
	Zone            int             `json:"zone"`
	InstalledSizeKw float64         `json:"installed_size_kw"`
	BatterySizeKwh  float64         `json:"battery_size_kwh"`
	RebateTotal     decimal.Decimal `json:"rebate_total"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	Violations      []string        `json:"violations"`
	CreatedAt       time.Time       `json:"created_at"`
}

func NewQuoteSaved(q *storedomain.StoredQuote) QuoteSaved {
	r := q.Result
	codes := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		codes = append(codes, string(v.Code))
	}
	return QuoteSaved{
		QuoteID:         q.ID,
		CatalogVersion:  r.CatalogVersion,
		Mode:            string(r.Mode),
		Postcode:        r.Zone.Postcode,
		Jurisdiction:    r.Zone.Jurisdiction,
		Zone:            int(r.Zone.Zone),
		InstalledSizeKw: r.InstalledSizeKw,
		BatterySizeKwh:  r.BatterySizeKwh,
		RebateTotal:     r.Rebates.Total,
		FinalPrice:      r.FinalPrice,
		Violations:      codes,
		CreatedAt:       q.CreatedAt,
	}
}

type Publisher interface {
	QuoteSaved(ctx context.Context, q *storedomain.StoredQuote) error
}

// MsgPublisher is satisfied by *nats.Conn.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

type natsPublisher struct {
	conn    MsgPublisher
	subject string
	log     *zap.Logger
}

// NewNATSPublisher publishes on subject through conn.
func NewNATSPublisher(conn MsgPublisher, subject string, log *zap.Logger) Publisher {
	return &natsPublisher{conn: conn, subject: subject, log: log.Named("events")}
}

func (p *natsPublisher) QuoteSaved(ctx context.Context, q *storedomain.StoredQuote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(NewQuoteSaved(q))
	if err != nil {
		return fmt.Errorf("encode quote event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, q.ID)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	p.log.Debug("quote event published", zap.String("quote_id", q.ID), zap.String("subject", p.subject))
	return nil
}

type discardPublisher struct{}

func (discardPublisher) QuoteSaved(context.Context, *storedomain.StoredQuote) error { return nil }

// NewPublisher connects to NATS when a URL is configured. Without one, events
// are discarded.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Publisher, error) {
	log = log.Named("events")
	if cfg.NATS.URL == "" {
		log.Info("nats url not configured, quote events disabled")
		return discardPublisher{}, nil
	}

	conn, err := nats.Connect(cfg.NATS.URL,
		nats.Name(cfg.AppName),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Drain()
		},
	})
	return NewNATSPublisher(conn, cfg.NATS.Subject, log), nil
}
