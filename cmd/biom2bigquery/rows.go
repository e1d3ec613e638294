package main

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/metagenomisc/biom"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Row is one non-zero cell of a table.
type Row struct {
	ObservationID string  `bigquery:"observation_id" csv:"observation_id"`
	SampleID      string  `bigquery:"sample_id" csv:"sample_id"`
	Value         float64 `bigquery:"value" csv:"value"`
}

// Rows lists the non-zero cells of t in row-major order, leaving out the
// samples named in skip.
func Rows(t *biom.Table, skip map[string]struct{}) []Row {
	observations, samples := t.ObservationIDs(), t.SampleIDs()

	out := make([]Row, 0, t.NNZ())
	for _, e := range t.Entries() {
		if _, exists := skip[samples[e.Col]]; exists {
			continue
		}
		out = append(out, Row{
			ObservationID: observations[e.Row],
			SampleID:      samples[e.Col],
			Value:         e.Value,
		})
	}

	return out
}

// WriteRows prints rows as TSV beneath a header line.
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return pfx.Err(gocsv.MarshalCSV(&rows, cw))
}
