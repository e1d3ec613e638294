package predict

import (
	"github.com/carbocation/metagenomisc/biom"
	"gonum.org/v1/gonum/mat"
)

// FunctionTableType is the BIOM type of a predicted metagenome.
const FunctionTableType = "Function table"

// Metagenomes predicts the abundance of every function (trait table row) in
// every sample (OTU table column): the sum over shared organisms of the
// organism's abundance times its copy number of the function. Organisms found
// in only one of the tables are dropped. Function metadata comes from the
// trait table and sample metadata from the OTU table.
func Metagenomes(otus, traits *biom.Table) (*biom.Table, error) {
	overlap, err := OverlappingIDs(otus.ObservationIDs(), traits.SampleIDs())
	if err != nil {
		return nil, err
	}

	functions := traits.ObservationIDs()
	samples := otus.SampleIDs()

	var entries []biom.Entry

	// mat panics on zero-sized matrices, and with no samples there is nothing
	// to fill in anyway.
	if len(samples) > 0 {
		// abundance is organisms (in overlap order) by samples. positions maps
		// a trait table column onto its row of abundance.
		abundance := mat.NewDense(len(overlap), len(samples), nil)
		positions := make(map[int]int, len(overlap))
		for k, id := range overlap {
			i, _ := otus.Index(biom.Observations, id)
			for _, c := range otus.Row(i) {
				abundance.Set(k, c.Index, c.Value)
			}

			j, _ := traits.Index(biom.Samples, id)
			positions[j] = k
		}

		copies := mat.NewVecDense(len(overlap), nil)
		predicted := mat.NewVecDense(len(samples), nil)
		touched := make([]int, 0, len(overlap))

		for f := range functions {
			touched = touched[:0]
			for _, c := range traits.Row(f) {
				k, ok := positions[c.Index]
				if !ok {
					continue
				}
				copies.SetVec(k, c.Value)
				touched = append(touched, k)
			}
			if len(touched) == 0 {
				continue
			}

			predicted.MulVec(abundance.T(), copies)
			for s := 0; s < len(samples); s++ {
				if v := predicted.AtVec(s); v != 0 {
					entries = append(entries, biom.Entry{Row: f, Col: s, Value: v})
				}
			}

			for _, k := range touched {
				copies.SetVec(k, 0)
			}
		}
	}

	header := biom.Header{
		Format:            biom.FormatName,
		FormatURL:         biom.FormatURL,
		Type:              FunctionTableType,
		MatrixType:        biom.MatrixTypeSparse,
		MatrixElementType: "float",
	}

	result, err := biom.NewTable(header, functions, samples, entries, nil, nil)
	if err != nil {
		return nil, err
	}

	if result, err = TransferObservationMetadata(traits, result); err != nil {
		return nil, err
	}

	return TransferSampleMetadata(otus, result)
}
