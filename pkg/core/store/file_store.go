package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"capital_metrics/pkg/models"
)

// FileStore keeps one JSON record per ticker in a directory, named
// financial_cache_<TICKER>.json. Good enough for local runs and as a
// fallback when no database is configured.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, defaulting to
// .cache/metrics in the working directory when dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "metrics")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(ticker string) string {
	return filepath.Join(s.dir, "financial_cache_"+tickerKey(ticker)+".json")
}

// Load reads the ticker's record. A missing file is a miss, not an
// error; an unreadable record is surfaced so the caller can decide.
func (s *FileStore) Load(_ context.Context, ticker string) (*models.Record, error) {
	data, err := os.ReadFile(s.path(ticker))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache for %s: %w", ticker, err)
	}
	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cache for %s: %w", ticker, err)
	}
	return &rec, nil
}

// Save writes the record as indented JSON, replacing any prior file.
func (s *FileStore) Save(_ context.Context, rec *models.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache for %s: %w", rec.Ticker, err)
	}
	if err := os.WriteFile(s.path(rec.Ticker), data, 0644); err != nil {
		return fmt.Errorf("write cache for %s: %w", rec.Ticker, err)
	}
	return nil
}

// tickerKey normalizes a ticker for use as a storage key.
func tickerKey(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
