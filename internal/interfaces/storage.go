// Package interfaces defines service contracts for Perfolio
package interfaces

import (
	"context"

	"github.com/mwhitfield/perfolio/internal/models"
)

// MarketDataStorage caches per-ticker EOD histories between analysis runs.
// Caching is a resolver collaborator; core result types are never stored.
type MarketDataStorage interface {
	// GetTickerHistory returns the cached history for ticker, or an error if
	// absent.
	GetTickerHistory(ctx context.Context, ticker string) (*models.TickerHistory, error)

	// SaveTickerHistory persists the history, replacing any prior entry.
	SaveTickerHistory(ctx context.Context, history *models.TickerHistory) error

	// Close releases underlying resources.
	Close() error
}
