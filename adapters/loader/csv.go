package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"boardroom/domain/core"
	"boardroom/domain/dataset"

	"github.com/saintfish/chardet"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/htmlindex"
)

// csvStrategy is how a delimited file is parsed
type csvStrategy int

const (
	singlePass csvStrategy = iota
	chunked
)

func (s csvStrategy) String() string {
	if s == chunked {
		return "chunked"
	}
	return "single-pass"
}

// csvStrategyFor picks the chunked parser only when size strictly exceeds the
// threshold
func csvStrategyFor(size, threshold int64) csvStrategy {
	if size > threshold {
		return chunked
	}
	return singlePass
}

// detectSampleBytes bounds how much input the charset detector inspects
const detectSampleBytes = 1 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (l *Loader) readDelimited(ctx context.Context, data []byte) (*dataset.Dataset, error) {
	strategy := csvStrategyFor(int64(len(data)), l.opts.ChunkThreshold)
	l.logger.Debug("[Loader] Delimited text strategy: %s", strategy)
	if strategy == chunked {
		return l.readChunked(ctx, bytes.TrimPrefix(data, utf8BOM))
	}
	decoded, charset := decode(data)
	l.logger.Debug("[Loader] Detected charset %s", charset)
	return readCSV(bytes.NewReader(decoded))
}

// decode converts data to UTF-8 using the detected charset, falling back to
// UTF-8 when detection or decoding fails
func decode(data []byte) ([]byte, string) {
	sample := data
	if len(sample) > detectSampleBytes {
		sample = sample[:detectSampleBytes]
	}
	charset := "utf-8"
	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil && res.Charset != "" {
		charset = strings.ToLower(res.Charset)
	}
	if charset == "utf-8" || charset == "ascii" {
		return bytes.TrimPrefix(data, utf8BOM), "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return bytes.TrimPrefix(data, utf8BOM), "utf-8"
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.TrimPrefix(data, utf8BOM), "utf-8"
	}
	return out, charset
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// readCSV parses a whole delimited document whose first record is the header
func readCSV(r io.Reader) (*dataset.Dataset, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	return dataset.FromRecords(header, records)
}

// readChunked parses the header once, then splits the body on line boundaries
// and parses chunks concurrently. Chunks are merged in input order.
func (l *Loader) readChunked(ctx context.Context, data []byte) (*dataset.Dataset, error) {
	cr := newCSVReader(bytes.NewReader(data))
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = append([]string(nil), header...)
	body := data[cr.InputOffset():]

	chunks := splitLines(body, l.opts.ChunkSize)
	l.logger.Info("[Loader] Parsing %d chunks with %d workers", len(chunks), l.opts.Workers)

	results := make([][][]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := newCSVReader(bytes.NewReader(chunk)).ReadAll()
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = records
			l.logger.Trace("[Loader] Chunk %d: %d bytes, %d records", i, len(chunk), len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	records := make([][]string, 0, total)
	for _, r := range results {
		records = append(records, r...)
	}
	return dataset.FromRecords(header, records)
}

// splitLines cuts data into pieces of roughly size bytes, each ending just
// after a newline that lies outside a quoted field
func splitLines(data []byte, size int64) [][]byte {
	if size <= 0 || int64(len(data)) <= size {
		return [][]byte{data}
	}
	var chunks [][]byte
	start := 0
	quoted := false
	for i, b := range data {
		switch b {
		case '"':
			quoted = !quoted
		case '\n':
			if !quoted && int64(i+1-start) >= size {
				chunks = append(chunks, data[start:i+1])
				start = i + 1
			}
		}
	}
	if start < len(data) {
		chunks = append(chunks, data[start:])
	}
	return chunks
}
