// Package loader parses uploaded files into datasets. The parser is chosen by
// file extension alone; content is never sniffed.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"boardroom/domain/dataset"
	"boardroom/internal"
	apperrors "boardroom/internal/errors"
)

// Format is a supported input family
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatExcel     Format = "excel"
	FormatXML       Format = "xml"
	FormatHTML      Format = "html"
	FormatPDF       Format = "pdf"
	FormatSQLite    Format = "sqlite"
)

var extensions = map[string]Format{
	".csv":    FormatDelimited,
	".txt":    FormatDelimited,
	".xlsx":   FormatExcel,
	".xls":    FormatExcel,
	".xml":    FormatXML,
	".html":   FormatHTML,
	".htm":    FormatHTML,
	".pdf":    FormatPDF,
	".db":     FormatSQLite,
	".sqlite": FormatSQLite,
}

// FormatFor maps a file name to its format by lower-cased extension
func FormatFor(name string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// Options tunes delimited text parsing
type Options struct {
	// ChunkThreshold is the size above which delimited text is parsed in chunks
	ChunkThreshold int64
	ChunkSize      int64
	Workers        int
}

// DefaultOptions routes files above 100 MiB to the chunked parser
func DefaultOptions() Options {
	return Options{
		ChunkThreshold: 100 * 1024 * 1024,
		ChunkSize:      64 * 1024 * 1024,
		Workers:        4,
	}
}

// Loader dispatches uploads to the parser for their extension
type Loader struct {
	opts   Options
	logger *internal.Logger
}

// New creates a loader. A nil logger discards output.
func New(opts Options, logger *internal.Logger) *Loader {
	def := DefaultOptions()
	if opts.ChunkThreshold <= 0 {
		opts.ChunkThreshold = def.ChunkThreshold
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load parses the upload named name. Unrecognized extensions yield a nil
// dataset and a nil error; parse failures are LOAD_FAILED errors naming the file.
func (l *Loader) Load(ctx context.Context, name string, r io.Reader) (*dataset.Dataset, error) {
	format, ok := FormatFor(name)
	if !ok {
		l.logger.Warn("[Loader] Unrecognized file type: %s", name)
		return nil, nil
	}

	start := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.LoadFailed(strings.ToLower(name), err)
	}
	l.logger.Info("[Loader] Read %s (%d bytes, %s)", name, len(data), format)

	ds, err := l.parse(ctx, format, data)
	if err != nil {
		l.logger.Error("[Loader] Failed to load %s: %v", name, err)
		return nil, apperrors.LoadFailed(strings.ToLower(name), err)
	}
	if ds == nil {
		l.logger.Warn("[Loader] No table found in %s", name)
		return nil, nil
	}
	l.logger.Info("[Loader] Loaded %s: %d rows x %d columns in %.2fms",
		name, ds.Len(), ds.Width(), float64(time.Since(start).Nanoseconds())/1e6)
	return ds, nil
}

func (l *Loader) parse(ctx context.Context, format Format, data []byte) (*dataset.Dataset, error) {
	switch format {
	case FormatDelimited:
		return l.readDelimited(ctx, data)
	case FormatExcel:
		return readExcel(data)
	case FormatXML:
		return readXML(bytes.NewReader(data))
	case FormatHTML:
		return readHTML(bytes.NewReader(data))
	case FormatPDF:
		return readPDF(data)
	case FormatSQLite:
		return readSQLite(ctx, data)
	}
	return nil, fmt.Errorf("no parser for %s", format)
}

