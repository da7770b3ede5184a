// Package yahoo provides a Yahoo Finance price source used as a fallback
// when a symbol is not available from the primary vendor.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
)

// Client implements the PriceSource interface over the Yahoo Finance chart API.
type Client struct {
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies this source for logging and cache provenance.
func (c *Client) Name() string {
	return "yahoo"
}

// GetEOD retrieves daily bars for ticker between from and to inclusive,
// oldest first. Yahoo serves bars oldest-first already.
func (c *Client) GetEOD(ctx context.Context, ticker string, from, to time.Time) ([]models.EODBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	c.logger.Debug().Str("ticker", ticker).Msg("Yahoo chart request")

	iter := chart.Get(params)

	var bars []models.EODBar
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, models.EODBar{
			Date:     time.Unix(int64(bar.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:     bar.Open.InexactFloat64(),
			High:     bar.High.InexactFloat64(),
			Low:      bar.Low.InexactFloat64(),
			Close:    bar.Close.InexactFloat64(),
			AdjClose: bar.AdjClose.InexactFloat64(),
			Volume:   int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart fetch for %s: %w", ticker, err)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars returned for %s", ticker)
	}

	return bars, nil
}

// Ensure Client implements PriceSource
var _ interfaces.PriceSource = (*Client)(nil)
