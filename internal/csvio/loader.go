package csvio

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for CSV files under a base directory.
type fileLoader struct {
	baseDir string
	logger  zerolog.Logger
}

// NewFileLoader creates a new file-based CSV loader rooted at baseDir.
func NewFileLoader(baseDir string, logger zerolog.Logger) Loader {
	return &fileLoader{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "csv-loader").Logger(),
	}
}

// Load reads a CSV file relative to the base directory.
func (l *fileLoader) Load(ctx context.Context, name string) (*Document, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", path).Msg("loading csv file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open csv file")
		return nil, fmt.Errorf("failed to open csv file %s: %w", name, err)
	}
	defer file.Close()

	doc, err := parse(ctx, file, name)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to parse csv file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("rows", len(doc.Rows)).
		Msg("csv file loaded successfully")

	return doc, nil
}

// resolve keeps name inside the base directory.
func (l *fileLoader) resolve(name string) (string, error) {
	clean := filepath.Clean("/" + name)
	if clean == "/" {
		return "", fmt.Errorf("invalid csv source name %q", name)
	}
	return filepath.Join(l.baseDir, clean), nil
}

// parse decompresses .gz sources and reads the document.
func parse(ctx context.Context, r io.Reader, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	return ReadAll(r)
}
