// Package biom holds the Biological Observation Matrix table model used by
// the prediction tools, along with readers and writers for its JSON and
// tab-delimited forms. Tables are immutable once constructed: every operation
// that would alter a table returns a new one instead.
package biom

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/araddon/dateparse"
)

const (
	FormatName = "Biological Observation Matrix 1.0.0"
	FormatURL  = "http://biom-format.org"

	MatrixTypeSparse = "sparse"
	MatrixTypeDense  = "dense"
)

// Metadata is the free-form annotation attached to one id. A nil Metadata
// is serialized as JSON null.
type Metadata map[string]interface{}

// Header carries the descriptive top-level fields of a BIOM document.
type Header struct {
	ID                string
	Format            string
	FormatURL         string
	Type              string
	GeneratedBy       string
	Date              string
	MatrixType        string
	MatrixElementType string
}

// Entry is one non-zero cell addressed by row (observation) and column
// (sample) index.
type Entry struct {
	Row   int
	Col   int
	Value float64
}

// Cell is a non-zero value within a single row.
type Cell struct {
	Index int
	Value float64
}

type Table struct {
	Header

	observationIDs      []string
	sampleIDs           []string
	observationMetadata []Metadata
	sampleMetadata      []Metadata

	// rows[i] holds the non-zero cells of observation i, sorted by sample
	// index.
	rows [][]Cell
	nnz  int

	observationIndex map[string]int
	sampleIndex      map[string]int
}

// NewTable validates its input and builds a table. Zero-valued entries are
// dropped. Metadata slices may be nil; otherwise they must be as long as the
// corresponding id slice.
func NewTable(header Header, observationIDs, sampleIDs []string, entries []Entry, observationMetadata, sampleMetadata []Metadata) (*Table, error) {
	t := &Table{
		Header:         header,
		observationIDs: append([]string(nil), observationIDs...),
		sampleIDs:      append([]string(nil), sampleIDs...),
	}

	var err error
	if t.observationIndex, err = indexIDs(t.observationIDs, Observations); err != nil {
		return nil, err
	}
	if t.sampleIndex, err = indexIDs(t.sampleIDs, Samples); err != nil {
		return nil, err
	}

	if observationMetadata != nil {
		if len(observationMetadata) != len(observationIDs) {
			return nil, fmt.Errorf("%d observation metadata entries were given for %d observations", len(observationMetadata), len(observationIDs))
		}
		t.observationMetadata = append([]Metadata(nil), observationMetadata...)
	}
	if sampleMetadata != nil {
		if len(sampleMetadata) != len(sampleIDs) {
			return nil, fmt.Errorf("%d sample metadata entries were given for %d samples", len(sampleMetadata), len(sampleIDs))
		}
		t.sampleMetadata = append([]Metadata(nil), sampleMetadata...)
	}

	t.rows = make([][]Cell, len(t.observationIDs))
	for _, e := range entries {
		if e.Row < 0 || e.Row >= len(t.observationIDs) || e.Col < 0 || e.Col >= len(t.sampleIDs) {
			return nil, fmt.Errorf("Entry [%d, %d] is outside of the %d x %d matrix", e.Row, e.Col, len(t.observationIDs), len(t.sampleIDs))
		}
		if e.Value == 0 {
			continue
		}
		t.rows[e.Row] = append(t.rows[e.Row], Cell{Index: e.Col, Value: e.Value})
	}

	for i, row := range t.rows {
		sort.Slice(row, func(a, b int) bool { return row[a].Index < row[b].Index })
		for j := 1; j < len(row); j++ {
			if row[j].Index == row[j-1].Index {
				return nil, fmt.Errorf("Entry [%d, %d] was given more than once", i, row[j].Index)
			}
		}
		t.nnz += len(row)
	}

	return t, nil
}

func indexIDs(ids []string, axis Axis) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, exists := out[id]; exists {
			return nil, fmt.Errorf("Duplicate %s id %q", axis, id)
		}
		out[id] = i
	}

	return out, nil
}

// Shape returns the number of observations and samples.
func (t *Table) Shape() (int, int) {
	return len(t.observationIDs), len(t.sampleIDs)
}

// NNZ is the number of stored (non-zero) cells.
func (t *Table) NNZ() int {
	return t.nnz
}

func (t *Table) ObservationIDs() []string {
	return t.IDs(Observations)
}

func (t *Table) SampleIDs() []string {
	return t.IDs(Samples)
}

// IDs returns a copy of the ids along the axis, in table order.
func (t *Table) IDs(axis Axis) []string {
	return append([]string(nil), t.idsOn(axis)...)
}

// Index looks up the position of id along the axis.
func (t *Table) Index(axis Axis, id string) (int, bool) {
	idx := t.observationIndex
	if axis == Samples {
		idx = t.sampleIndex
	}
	i, ok := idx[id]

	return i, ok
}

// Metadata returns a copy of the per-id metadata along the axis, or nil if
// the table carries none for that axis. The maps themselves are shared and
// must not be modified.
func (t *Table) Metadata(axis Axis) []Metadata {
	md := t.observationMetadata
	if axis == Samples {
		md = t.sampleMetadata
	}
	if md == nil {
		return nil
	}

	return append([]Metadata(nil), md...)
}

// Row returns the non-zero cells of observation i, sorted by sample index.
// The returned slice is shared and must not be modified.
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// Value returns the cell at (row, col), which is zero when not stored.
func (t *Table) Value(row, col int) float64 {
	cells := t.rows[row]
	k := sort.Search(len(cells), func(j int) bool { return cells[j].Index >= col })
	if k < len(cells) && cells[k].Index == col {
		return cells[k].Value
	}

	return 0
}

// Entries lists every stored cell in row-major order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.nnz)
	for i, row := range t.rows {
		for _, c := range row {
			out = append(out, Entry{Row: i, Col: c.Index, Value: c.Value})
		}
	}

	return out
}

// DateTime parses the header date, which BIOM writers emit in a variety of
// layouts.
func (t *Table) DateTime() (time.Time, error) {
	if t.Date == "" {
		return time.Time{}, fmt.Errorf("Table has no date")
	}

	return dateparse.ParseAny(t.Date)
}

// WithHeader returns a copy of the table with a different header. The
// matrix and metadata are shared with the original.
func (t *Table) WithHeader(h Header) *Table {
	out := *t
	out.Header = h

	return &out
}

// WithMetadata returns a copy of the table whose metadata along axis is
// replaced by md, which must be nil or as long as the axis.
func (t *Table) WithMetadata(axis Axis, md []Metadata) (*Table, error) {
	ids := t.idsOn(axis)
	if md != nil && len(md) != len(ids) {
		return nil, fmt.Errorf("%d %s metadata entries were given for %d ids", len(md), axis, len(ids))
	}

	out := *t
	if axis == Samples {
		out.sampleMetadata = append([]Metadata(nil), md...)
	} else {
		out.observationMetadata = append([]Metadata(nil), md...)
	}

	return &out, nil
}

// idsOn returns the ids along axis without copying them.
func (t *Table) idsOn(axis Axis) []string {
	if axis == Samples {
		return t.sampleIDs
	}

	return t.observationIDs
}

func (t *Table) metadataFor(axis Axis, i int) Metadata {
	md := t.observationMetadata
	if axis == Samples {
		md = t.sampleMetadata
	}
	if md == nil {
		return nil
	}

	return md[i]
}

// Equal reports whether both tables hold the same ids, values and metadata.
// Row and column order is not significant and header fields are ignored.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}

	if t.nnz != other.nnz {
		return false
	}

	for _, axis := range []Axis{Observations, Samples} {
		ids := t.idsOn(axis)
		if len(ids) != len(other.idsOn(axis)) {
			return false
		}

		for i, id := range ids {
			j, ok := other.Index(axis, id)
			if !ok {
				return false
			}
			if !reflect.DeepEqual(t.metadataFor(axis, i), other.metadataFor(axis, j)) {
				return false
			}
		}
	}

	for i, row := range t.rows {
		oi := other.observationIndex[t.observationIDs[i]]
		for _, c := range row {
			oj := other.sampleIndex[t.sampleIDs[c.Index]]
			if !floatsEqual(c.Value, other.Value(oi, oj)) {
				return false
			}
		}
	}

	return true
}

func floatsEqual(a, b float64) bool {
	const tolerance = 1e-9
	if a == b {
		return true
	}

	return math.Abs(a-b) <= tolerance*math.Max(math.Abs(a), math.Abs(b))
}
