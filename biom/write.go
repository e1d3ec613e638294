package biom

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
)

// sparseEntry marshals as [row, col, value] with integer indices.
type sparseEntry Entry

func (e sparseEntry) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 32)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(e.Row), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(e.Col), 10)
	b = append(b, ',')
	b = strconv.AppendFloat(b, e.Value, 'g', -1, 64)
	b = append(b, ']')

	return b, nil
}

type outputDocument struct {
	ID                *string       `json:"id"`
	Format            string        `json:"format"`
	FormatURL         string        `json:"format_url"`
	Type              string        `json:"type"`
	GeneratedBy       string        `json:"generated_by"`
	Date              string        `json:"date"`
	MatrixType        string        `json:"matrix_type"`
	MatrixElementType string        `json:"matrix_element_type"`
	Shape             [2]int        `json:"shape"`
	Data              []sparseEntry `json:"data"`
	Rows              []axisRecord  `json:"rows"`
	Columns           []axisRecord  `json:"columns"`
}

// MarshalJSON renders the table as a sparse BIOM 1.0 document.
func (t *Table) MarshalJSON() ([]byte, error) {
	doc := outputDocument{
		Format:            t.Format,
		FormatURL:         t.FormatURL,
		Type:              t.Type,
		GeneratedBy:       t.GeneratedBy,
		Date:              t.Date,
		MatrixType:        MatrixTypeSparse,
		MatrixElementType: t.MatrixElementType,
		Data:              make([]sparseEntry, 0, t.nnz),
		Rows:              joinRecords(t.observationIDs, t.observationMetadata),
		Columns:           joinRecords(t.sampleIDs, t.sampleMetadata),
	}
	if t.ID != "" {
		id := t.ID
		doc.ID = &id
	}
	if doc.Format == "" {
		doc.Format = FormatName
	}
	if doc.FormatURL == "" {
		doc.FormatURL = FormatURL
	}
	if doc.MatrixElementType == "" {
		doc.MatrixElementType = "float"
	}
	doc.Shape[0], doc.Shape[1] = t.Shape()

	for _, e := range t.Entries() {
		doc.Data = append(doc.Data, sparseEntry(e))
	}

	return json.Marshal(doc)
}

// WriteJSON serializes the table to w.
func (t *Table) WriteJSON(w io.Writer) error {
	b, err := t.MarshalJSON()
	if err != nil {
		return pfx.Err(err)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(b); err != nil {
		return pfx.Err(err)
	}

	return pfx.Err(bw.Flush())
}

func joinRecords(ids []string, md []Metadata) []axisRecord {
	out := make([]axisRecord, len(ids))
	for i, id := range ids {
		out[i].ID = id
		if md != nil {
			out[i].Metadata = md[i]
		}
	}

	return out
}
