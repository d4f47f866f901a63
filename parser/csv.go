package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docchunk/fragment"
)

// CSVParser handles CSV files. The whole file is one table; the first
// record is its header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}
	for i, record := range records {
		kind := fragment.RowData
		if i == 0 {
			kind = fragment.RowHeader
		}
		doc.Fragments = append(doc.Fragments, fragment.Fragment{
			Kind:    fragment.KindTableRow,
			TableID: 1,
			RowKind: kind,
			Cells:   record,
		})
	}
	return doc, nil
}
