// Package interfaces defines service contracts for Perfolio
package interfaces

import (
	"context"
	"time"

	"github.com/mwhitfield/perfolio/internal/models"
)

// PriceSource fetches adjusted-close price history for a single symbol.
// Implementations perform network I/O; this is the seam mocked in tests.
type PriceSource interface {
	// GetEOD returns daily bars for ticker between from and to inclusive,
	// oldest first. A symbol the source does not know yields an error.
	GetEOD(ctx context.Context, ticker string, from, to time.Time) ([]models.EODBar, error)

	// Name identifies the source ("eodhd", "yahoo") for logging and cache
	// provenance.
	Name() string
}
