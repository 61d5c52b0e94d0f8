package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/events"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

type capture struct {
	msgs []*nats.Msg
	err  error
}

func (c *capture) PublishMsg(m *nats.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func storedQuote() *storedomain.StoredQuote {
	return &storedomain.StoredQuote{
		ID:        "01J0000000000000000000000Q",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Result: &quotedomain.Result{
			CatalogVersion:  "2026.1",
			Mode:            quotedomain.ModeConservative,
			Zone:            zonedomain.Resolution{Zone: zonedomain.Zone3, Postcode: "2000", Jurisdiction: "NSW"},
			InstalledSizeKw: 6.6,
			Rebates:         quotedomain.RebateBreakdown{Total: decimal.RequireFromString("2656.50")},
			FinalPrice:      decimal.RequireFromString("4368.10"),
			Violations:      []quotedomain.Violation{{Code: quotedomain.ViolationMinimumProfitApplied}},
		},
	}
}

func TestQuoteSavedPublishesPayload(t *testing.T) {
	conn := &capture{}
	pub := events.NewNATSPublisher(conn, "quotes.saved", zap.NewNop())

	require.NoError(t, pub.QuoteSaved(context.Background(), storedQuote()))
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "quotes.saved", msg.Subject)
	assert.Equal(t, "01J0000000000000000000000Q", msg.Header.Get(nats.MsgIdHdr))

	var payload events.QuoteSaved
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "2000", payload.Postcode)
	assert.Equal(t, 3, payload.Zone)
	assert.Equal(t, "conservative", payload.Mode)
	assert.Equal(t, "4368.10", payload.FinalPrice.StringFixed(2))
	assert.Equal(t, []string{"minimum_profit_applied"}, payload.Violations)
}

func TestQuoteSavedWrapsPublishError(t *testing.T) {
	cause := errors.New("nats: connection closed")
	pub := events.NewNATSPublisher(&capture{err: cause}, "quotes.saved", zap.NewNop())

	err := pub.QuoteSaved(context.Background(), storedQuote())
	assert.ErrorIs(t, err, cause)
}

func TestQuoteSavedHonoursCancelledContext(t *testing.T) {
	conn := &capture{}
	pub := events.NewNATSPublisher(conn, "quotes.saved", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.QuoteSaved(ctx, storedQuote()), context.Canceled)
	assert.Empty(t, conn.msgs)
}

func TestPublisherWithoutURLDiscards(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	pub, err := events.NewPublisher(lc, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, pub.QuoteSaved(context.Background(), storedQuote()))
}
