package loader

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"boardroom/domain/dataset"

	"github.com/ledongthuc/pdf"
)

// column gaps wider than this many font sizes start a new cell
const (
	cellGapEm = 1.0
	wordGapEm = 0.15
)

// readPDF extracts text rows from every page and returns the first table
// found. A document without a table yields no dataset.
func readPDF(data []byte) (*dataset.Dataset, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	var lines [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })
		for _, row := range rows {
			if cells := splitCells(row.Content); len(cells) > 0 {
				lines = append(lines, cells)
			}
		}
	}
	header, records, ok := firstTable(lines)
	if !ok {
		return nil, nil
	}
	return dataset.FromRecords(header, records)
}

// splitCells joins the text runs of one row left to right, starting a new cell
// wherever the horizontal gap exceeds cellGapEm
func splitCells(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []string
	var cur strings.Builder
	end := sorted[0].X
	for i, t := range sorted {
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		gap := t.X - end
		if i > 0 {
			switch {
			case gap > cellGapEm*size:
				cells = appendCell(cells, cur.String())
				cur.Reset()
			case gap > wordGapEm*size:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		if e := t.X + t.W; e > end || i == 0 {
			end = e
		}
	}
	return appendCell(cells, cur.String())
}

func appendCell(cells []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return cells
	}
	return append(cells, s)
}

// firstTable finds the first run of at least two consecutive lines that share
// a cell count of two or more. The first line of the run is the header.
func firstTable(lines [][]string) ([]string, [][]string, bool) {
	for start := 0; start < len(lines); start++ {
		width := len(lines[start])
		if width < 2 {
			continue
		}
		stop := start + 1
		for stop < len(lines) && len(lines[stop]) == width {
			stop++
		}
		if stop-start >= 2 {
			return lines[start], lines[start+1 : stop], true
		}
	}
	return nil, nil, false
}
