package domain

import (
	"context"
	"time"

	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
)

// StoredQuote is a priced quote kept for later retrieval. ID is a ULID.
type StoredQuote struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
	Result    *quotedomain.Result `json:"result"`
}

type Store interface {
	Save(ctx context.Context, result *quotedomain.Result) (*StoredQuote, error)
	// Get returns a NotFoundError when the quote never existed or expired.
	Get(ctx context.Context, id string) (*StoredQuote, error)
}

var ErrInvalidQuoteID = apperr.Validation("quote_id", "must be a ULID")
