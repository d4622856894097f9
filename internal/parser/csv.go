package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
)

// CSVParser handles outlines kept in spreadsheets: the column of a row's
// first non-empty cell is its depth, and the remaining non-empty cells are
// joined into the item text.
type CSVParser struct {
	Options outline.Options
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	w := newOutlineWriter(p.Options)
	for _, row := range records {
		depth := -1
		var cells []string
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if depth < 0 {
				depth = j
			}
			cells = append(cells, cell)
		}
		if depth < 0 {
			continue
		}
		w.Item(depth, strings.Join(cells, " | "))
	}

	return buildDocTree(titleFromFilename(filename), w.String(), p.Options)
}
