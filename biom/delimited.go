package biom

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

const (
	// ClassicComment is the first line of a tab-delimited table.
	ClassicComment = "# Constructed from biom file"

	// DefaultFirstColumn heads the id column when no other name is given.
	DefaultFirstColumn = "#OTU ID"
)

// MetadataFormatter renders one metadata value as a single text field.
type MetadataFormatter func(value interface{}) string

// DelimitedOptions control the tab-delimited rendering of a table.
type DelimitedOptions struct {
	// MetadataKey selects the observation metadata entry placed in the last
	// column. If empty, no metadata column is written.
	MetadataKey string

	// MetadataHeader names the metadata column. Defaults to MetadataKey.
	MetadataHeader string

	// Formatter defaults to JoinedListFormatter.
	Formatter MetadataFormatter
}

// JoinedListFormatter joins a list of lists as "a; b|c; d". Scalars are
// printed as is.
func JoinedListFormatter(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []interface{}:
		groups := make([]string, 0, len(v))
		for _, group := range v {
			if inner, ok := group.([]interface{}); ok {
				parts := make([]string, 0, len(inner))
				for _, p := range inner {
					parts = append(parts, fmt.Sprint(p))
				}
				groups = append(groups, strings.Join(parts, "; "))
				continue
			}
			groups = append(groups, fmt.Sprint(group))
		}
		return strings.Join(groups, "|")
	}

	return fmt.Sprint(value)
}

// FormatValue prints integral values with a trailing .0 the way BIOM tools
// do, so counts stay recognizable as floats.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteDelimited writes the table in the classic tab-delimited layout: a
// comment line, a header line and one line per observation.
func (t *Table) WriteDelimited(w io.Writer, opts DelimitedOptions) error {
	if opts.MetadataHeader == "" {
		opts.MetadataHeader = opts.MetadataKey
	}
	if opts.Formatter == nil {
		opts.Formatter = JoinedListFormatter
	}
	withMetadata := opts.MetadataKey != "" && t.observationMetadata != nil

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write([]string{ClassicComment}); err != nil {
		return pfx.Err(err)
	}

	header := append([]string{DefaultFirstColumn}, t.sampleIDs...)
	if withMetadata {
		header = append(header, opts.MetadataHeader)
	}
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	line := make([]string, len(header))
	for i, id := range t.observationIDs {
		line[0] = id
		for j := range t.sampleIDs {
			line[j+1] = "0.0"
		}
		for _, c := range t.rows[i] {
			line[c.Index+1] = FormatValue(c.Value)
		}
		if withMetadata {
			var value interface{}
			if md := t.observationMetadata[i]; md != nil {
				value = md[opts.MetadataKey]
			}
			line[len(line)-1] = opts.Formatter(value)
		}
		if err := cw.Write(line); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()

	return pfx.Err(cw.Error())
}

// ReadDelimited parses a classic tab-delimited (or otherwise delimited)
// table. Lines beginning with # are comments, and the last comment before the
// first data line is the header. If the header's final column is named
// metadataColumn, that column is read as observation metadata and split on
// "; " into a list.
func ReadDelimited(r io.Reader, delimiter rune, metadataColumn string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		header         []string
		observationIDs []string
		metadata       []Metadata
		entries        []Entry
		hasMetadata    bool
		nSamples       int
	)

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}

		if strings.HasPrefix(row[0], "#") && observationIDs == nil {
			header = row
			continue
		}

		if header == nil {
			return nil, fmt.Errorf("Line %d: data was found before a header line", line)
		}
		if observationIDs == nil {
			hasMetadata = metadataColumn != "" && len(header) > 1 && header[len(header)-1] == metadataColumn
			nSamples = len(header) - 1
			if hasMetadata {
				nSamples--
			}
			observationIDs = make([]string, 0)
		}

		if len(row) != len(header) {
			return nil, fmt.Errorf("Line %d has %d fields but the header has %d", line, len(row), len(header))
		}

		obs := len(observationIDs)
		observationIDs = append(observationIDs, row[0])
		for j := 0; j < nSamples; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("Line %d, column %d: %w", line, j+2, err)
			}
			if v != 0 {
				entries = append(entries, Entry{Row: obs, Col: j, Value: v})
			}
		}

		if hasMetadata {
			parts := strings.Split(row[len(row)-1], ";")
			values := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				values = append(values, strings.TrimSpace(p))
			}
			metadata = append(metadata, Metadata{metadataColumn: values})
		}
	}

	if header == nil {
		return nil, fmt.Errorf("No header line was found")
	}
	if observationIDs == nil {
		hasMetadata = metadataColumn != "" && len(header) > 1 && header[len(header)-1] == metadataColumn
		nSamples = len(header) - 1
		if hasMetadata {
			nSamples--
		}
	}

	sampleIDs := header[1 : 1+nSamples]

	h := Header{
		Format:            FormatName,
		FormatURL:         FormatURL,
		Type:              "OTU table",
		MatrixType:        MatrixTypeSparse,
		MatrixElementType: "float",
	}

	if !hasMetadata {
		metadata = nil
	}

	return NewTable(h, observationIDs, sampleIDs, entries, metadata, nil)
}
