package loader

import (
	"io"
	"strconv"
	"strings"

	"boardroom/domain/core"
	"boardroom/domain/dataset"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// readHTML reads the first <table> of the document. A first row made only of
// <th> cells is the header; otherwise columns are numbered from 0.
func readHTML(r io.Reader) (*dataset.Dataset, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, core.ErrNoTableFound
	}

	var rows [][]string
	headerRow := false
	for _, tr := range tableRows(table) {
		cells, allHeader := rowCells(tr)
		if len(cells) == 0 {
			continue
		}
		if len(rows) == 0 {
			headerRow = allHeader
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, core.ErrNoTableFound
	}

	if headerRow {
		return fromGrid(rows), nil
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	for i := range header {
		header[i] = strconv.Itoa(i)
	}
	return fromGrid(append([][]string{header}, rows...)), nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// tableRows collects <tr> elements of the table without descending into
// nested tables
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Table:
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

// rowCells returns the text of each cell, repeated per colspan, and whether
// every cell is a <th>
func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom == atom.Td {
			allHeader = false
		}
		text := strings.Join(strings.Fields(textOf(c)), " ")
		span := 1
		for _, a := range c.Attr {
			if a.Key == "colspan" {
				if n, err := strconv.Atoi(a.Val); err == nil && n > 1 {
					span = n
				}
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	}
	return cells, allHeader && len(cells) > 0
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
		b.WriteByte(' ')
	}
	return b.String()
}
