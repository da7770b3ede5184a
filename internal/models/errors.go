// Package models defines data structures for Perfolio
package models

import "errors"

// Error kinds surfaced by the analysis pipeline. Callers match with errors.Is.
var (
	// ErrInvalidInput covers malformed requests: missing ticker/weight fields,
	// empty ticker selection, or a date range with start after end. Surfaced
	// before any I/O.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoPriceData means no usable price series could be fetched for any
	// requested ticker. Fatal to the current analysis run; never retried here.
	ErrNoPriceData = errors.New("no price data")

	// ErrNoTradableAssets means the intersection of portfolio weights and
	// resolved price columns is empty.
	ErrNoTradableAssets = errors.New("no tradable assets")
)
