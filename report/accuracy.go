// Package report writes the per-sample accuracy metrics that accompany a
// predicted metagenome.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/carbocation/metagenomisc/predict"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Undefined is written for scores without a value.
const Undefined = "NaN"

type accuracyRow struct {
	Sample string `csv:"#Sample"`
	Metric string `csv:"Metric"`
	Value  string `csv:"Value"`
}

// WriteAccuracy writes one tab-delimited line per score, sorted by sample
// and then by metric, beneath a "#Sample Metric Value" header.
func WriteAccuracy(w io.Writer, scores []predict.NSTI) error {
	rows := make([]accuracyRow, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, accuracyRow{
			Sample: s.SampleID,
			Metric: s.Metric,
			Value:  NullFloatFormatter(s.Value),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Sample != rows[j].Sample {
			return rows[i].Sample < rows[j].Sample
		}
		return rows[i].Metric < rows[j].Metric
	})

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return pfx.Err(gocsv.MarshalCSV(&rows, cw))
}

func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return Undefined
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}
