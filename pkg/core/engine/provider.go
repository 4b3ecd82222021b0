package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"capital_metrics/pkg/core/statements"
)

// FileProvider serves statement indexes from snapshot files on disk,
// one file per ticker: <dir>/<TICKER>.json or <dir>/<TICKER>.hjson.
// Useful for demos and offline runs; the live filing-retrieval service
// implements IndexProvider the same way.
type FileProvider struct {
	Dir string
}

// StatementIndex loads the ticker's snapshot. The years argument is
// ignored: a snapshot file holds whatever window it was captured with.
func (p *FileProvider) StatementIndex(_ context.Context, ticker string, _ int) (*statements.Index, error) {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	for _, name := range []string{key + ".json", key + ".hjson"} {
		path := filepath.Join(p.Dir, name)
		if _, err := os.Stat(path); err == nil {
			return statements.LoadIndexFile(path)
		}
	}
	return nil, fmt.Errorf("no statement snapshot for %s under %s", key, p.Dir)
}
