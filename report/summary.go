package report

import (
	"fmt"

	"github.com/carbocation/metagenomisc/predict"
	"github.com/montanaflynn/stats"
)

// Summary describes the defined scores of a set of samples.
type Summary struct {
	N         int
	Undefined int
	Mean      float64
	Median    float64
	Max       float64
	P95       float64
}

// Summarize computes the summary of the valid scores. With no valid scores
// only the counts are filled in.
func Summarize(scores []predict.NSTI) (Summary, error) {
	out := Summary{}

	data := make(stats.Float64Data, 0, len(scores))
	for _, s := range scores {
		if !s.Value.Valid {
			out.Undefined++
			continue
		}
		data = append(data, s.Value.Float64)
	}
	out.N = data.Len()

	if data.Len() < 1 {
		return out, nil
	}

	var err error
	if out.Mean, err = data.Mean(); err != nil {
		return out, err
	}
	if out.Median, err = data.Median(); err != nil {
		return out, err
	}
	if out.Max, err = data.Max(); err != nil {
		return out, err
	}
	if out.P95, err = data.Percentile(95); err != nil {
		return out, err
	}

	return out, nil
}

func (s Summary) String() string {
	if s.N < 1 {
		return fmt.Sprintf("no defined scores (%d undefined)", s.Undefined)
	}

	return fmt.Sprintf("%d samples (%d undefined): mean %.3f, median %.3f, 95th percentile %.3f, max %.3f", s.N, s.Undefined, s.Mean, s.Median, s.P95, s.Max)
}
