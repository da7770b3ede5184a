// Package marketfs implements file-based JSON storage for cached EOD price
// histories. One file per ticker, written atomically.
package marketfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/models"
)

// Store provides file-based JSON storage for ticker histories.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates a market file store rooted at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create market store path %s: %w", path, err)
	}

	logger.Info().Str("path", path).Msg("Market store opened")
	return &Store{
		basePath: path,
		logger:   logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// GetTickerHistory loads the cached history for ticker.
func (s *Store) GetTickerHistory(ctx context.Context, ticker string) (*models.TickerHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.historyPath(ticker))
	if err != nil {
		return nil, fmt.Errorf("no cached history for %s: %w", ticker, err)
	}

	var history models.TickerHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode cached history for %s: %w", ticker, err)
	}

	return &history, nil
}

// SaveTickerHistory persists the history atomically, replacing any prior entry.
func (s *Store) SaveTickerHistory(ctx context.Context, history *models.TickerHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if history == nil || history.Ticker == "" {
		return fmt.Errorf("history must have a ticker")
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history for %s: %w", history.Ticker, err)
	}

	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.historyPath(history.Ticker)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file for %s: %w", history.Ticker, err)
	}

	s.logger.Debug().Str("ticker", history.Ticker).Int("bars", len(history.Bars)).Msg("Cached ticker history")
	return nil
}

// Close releases underlying resources. File stores hold none.
func (s *Store) Close() error {
	return nil
}

func (s *Store) historyPath(ticker string) string {
	return filepath.Join(s.basePath, sanitizeKey(ticker)+".json")
}

// sanitizeKey makes a ticker safe to use as a file name.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return replacer.Replace(strings.ToUpper(key))
}

// Ensure Store implements MarketDataStorage
var _ interfaces.MarketDataStorage = (*Store)(nil)
