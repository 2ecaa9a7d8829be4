package loader

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"boardroom/domain/core"
	"boardroom/domain/dataset"
)

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

// readXML treats each child of the document root as a row. Attributes and
// child elements of a row become columns, named in order of first appearance.
func readXML(r io.Reader) (*dataset.Dataset, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, core.ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: root element <%s> has no rows", core.ErrEmptyInput, root.XMLName.Local)
	}

	var names []string
	position := make(map[string]int)
	cells := make([]map[string]string, len(root.Children))
	add := func(row int, name, value string) {
		if _, ok := position[name]; !ok {
			position[name] = len(names)
			names = append(names, name)
		}
		if _, dup := cells[row][name]; !dup {
			cells[row][name] = strings.TrimSpace(value)
		}
	}
	for i, row := range root.Children {
		cells[i] = make(map[string]string)
		for _, a := range row.Attrs {
			add(i, a.Name.Local, a.Value)
		}
		for _, c := range row.Children {
			add(i, c.XMLName.Local, c.Text)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: rows of <%s> carry no fields", core.ErrEmptyInput, root.XMLName.Local)
	}
	records := make([][]string, len(cells))
	for i, row := range cells {
		rec := make([]string, len(names))
		for name, v := range row {
			rec[position[name]] = v
		}
		records[i] = rec
	}
	return dataset.FromRecords(names, records)
}
