package biom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/carbocation/pfx"
)

type axisRecord struct {
	ID       string   `json:"id"`
	Metadata Metadata `json:"metadata"`
}

// document mirrors the JSON layout of a BIOM 1.0 file.
type document struct {
	ID                *string      `json:"id"`
	Format            string       `json:"format"`
	FormatURL         string       `json:"format_url"`
	Type              string       `json:"type"`
	GeneratedBy       string       `json:"generated_by"`
	Date              string       `json:"date"`
	MatrixType        string       `json:"matrix_type"`
	MatrixElementType string       `json:"matrix_element_type"`
	Shape             []int        `json:"shape"`
	Data              [][]float64  `json:"data"`
	Rows              []axisRecord `json:"rows"`
	Columns           []axisRecord `json:"columns"`
}

// ParseBytes parses a BIOM JSON document held in memory.
func ParseBytes(text []byte) (*Table, error) {
	return Parse(bytes.NewReader(text))
}

// Parse decodes a complete BIOM JSON document. Both sparse and dense matrix
// types are accepted.
func Parse(r io.Reader) (*Table, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, pfx.Err(err)
	}

	if doc.Rows == nil || doc.Columns == nil {
		return nil, fmt.Errorf("BIOM document is missing its rows or columns")
	}

	nRows, nCols := len(doc.Rows), len(doc.Columns)
	if doc.Shape != nil && (len(doc.Shape) != 2 || doc.Shape[0] != nRows || doc.Shape[1] != nCols) {
		return nil, fmt.Errorf("BIOM shape %v does not match %d rows and %d columns", doc.Shape, nRows, nCols)
	}

	header := Header{
		Format:            doc.Format,
		FormatURL:         doc.FormatURL,
		Type:              doc.Type,
		GeneratedBy:       doc.GeneratedBy,
		Date:              doc.Date,
		MatrixType:        doc.MatrixType,
		MatrixElementType: doc.MatrixElementType,
	}
	if doc.ID != nil {
		header.ID = *doc.ID
	}

	entries, err := decodeData(doc.Data, strings.ToLower(doc.MatrixType), nCols)
	if err != nil {
		return nil, err
	}

	rowIDs, rowMetadata := splitRecords(doc.Rows)
	colIDs, colMetadata := splitRecords(doc.Columns)

	return NewTable(header, rowIDs, colIDs, entries, rowMetadata, colMetadata)
}

func decodeData(data [][]float64, matrixType string, nCols int) ([]Entry, error) {
	entries := make([]Entry, 0, len(data))

	if matrixType == MatrixTypeDense {
		for i, row := range data {
			if len(row) != nCols {
				return nil, fmt.Errorf("Dense row %d has %d values but there are %d columns", i, len(row), nCols)
			}
			for j, v := range row {
				if v != 0 {
					entries = append(entries, Entry{Row: i, Col: j, Value: v})
				}
			}
		}

		return entries, nil
	}

	for k, triple := range data {
		if len(triple) != 3 {
			return nil, fmt.Errorf("Sparse entry %d has %d elements; expected [row, column, value]", k, len(triple))
		}
		row, col := triple[0], triple[1]
		if row != math.Trunc(row) || col != math.Trunc(col) {
			return nil, fmt.Errorf("Sparse entry %d has a non-integer index: %v", k, triple)
		}
		entries = append(entries, Entry{Row: int(row), Col: int(col), Value: triple[2]})
	}

	return entries, nil
}

// splitRecords separates ids from metadata. The metadata slice is nil when no
// record carries any.
func splitRecords(records []axisRecord) ([]string, []Metadata) {
	ids := make([]string, len(records))
	md := make([]Metadata, len(records))
	anyMetadata := false
	for i, r := range records {
		ids[i] = r.ID
		md[i] = r.Metadata
		if r.Metadata != nil {
			anyMetadata = true
		}
	}

	if !anyMetadata {
		return ids, nil
	}

	return ids, md
}
