package predict

import (
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/metagenomisc/biom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

const (
	// DefaultNSTIKey is the trait table sample metadata entry that holds each
	// organism's distance to its nearest sequenced genome.
	DefaultNSTIKey = "NSTI"

	WeightedNSTIMetric   = "Weighted NSTI"
	UnweightedNSTIMetric = "Unweighted NSTI"
)

type NSTIOptions struct {
	// MetadataKey defaults to DefaultNSTIKey.
	MetadataKey string

	// Unweighted averages the distance of the organisms present in a sample
	// instead of weighting each one by its abundance.
	Unweighted bool
}

// NSTI is the Nearest Sequenced Taxon Index of one sample. Value is invalid
// when the sample has no abundance among organisms that carry a distance.
type NSTI struct {
	SampleID string
	Metric   string
	Value    null.Float
}

// CalcNSTI scores every sample of the OTU table, in the OTU table's sample
// order. Organisms without a distance in the trait table's metadata are left
// out of both the numerator and the denominator.
func CalcNSTI(otus, traits *biom.Table, opts NSTIOptions) ([]NSTI, error) {
	key := opts.MetadataKey
	if key == "" {
		key = DefaultNSTIKey
	}
	metric := WeightedNSTIMetric
	if opts.Unweighted {
		metric = UnweightedNSTIMetric
	}

	overlap, err := OverlappingIDs(otus.ObservationIDs(), traits.SampleIDs())
	if err != nil {
		return nil, err
	}

	samples := otus.SampleIDs()

	// weights[s][k] is the abundance in sample s of the k'th organism that
	// has a distance.
	var distances []float64
	weights := make([][]float64, len(samples))
	if traitMetadata := traits.Metadata(biom.Samples); traitMetadata != nil {
		for _, id := range overlap {
			j, _ := traits.Index(biom.Samples, id)
			d, ok := distance(traitMetadata[j], key)
			if !ok {
				continue
			}
			distances = append(distances, d)
		}

		for s := range weights {
			weights[s] = make([]float64, len(distances))
		}

		k := 0
		for _, id := range overlap {
			j, _ := traits.Index(biom.Samples, id)
			if _, ok := distance(traitMetadata[j], key); !ok {
				continue
			}
			i, _ := otus.Index(biom.Observations, id)
			for _, c := range otus.Row(i) {
				weights[c.Index][k] = c.Value
			}
			k++
		}
	}

	out := make([]NSTI, len(samples))
	for s, id := range samples {
		out[s] = NSTI{SampleID: id, Metric: metric}

		if opts.Unweighted {
			var present []float64
			for k, w := range weights[s] {
				if w > 0 {
					present = append(present, distances[k])
				}
			}
			if len(present) > 0 {
				out[s].Value = null.FloatFrom(stat.Mean(present, nil))
			}
			continue
		}

		if len(weights[s]) == 0 || floats.Sum(weights[s]) == 0 {
			continue
		}
		out[s].Value = null.FloatFrom(stat.Mean(distances, weights[s]))
	}

	return out, nil
}

// distance reads key out of md. Numbers stored as text are accepted.
func distance(md biom.Metadata, key string) (float64, bool) {
	if md == nil {
		return 0, false
	}

	var d float64
	switch v := md[key].(type) {
	case float64:
		d = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}

	if math.IsNaN(d) {
		return 0, false
	}

	return d, true
}
