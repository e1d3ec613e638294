package biom

import (
	"fmt"
	"strings"
)

// Axis selects the rows (observations) or the columns (samples) of a table.
type Axis byte

const (
	Observations Axis = iota
	Samples
)

func (a Axis) String() string {
	if a == Samples {
		return "samples"
	}

	return "observations"
}

// key is the name of the top level BIOM field that lists this axis' ids.
func (a Axis) key() string {
	if a == Samples {
		return "columns"
	}

	return "rows"
}

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == Samples {
		return Observations
	}

	return Samples
}

// ParseAxis accepts either the BIOM names (observations, samples) or the
// matrix names (rows, columns).
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "observations", "observation", "rows", "row":
		return Observations, nil
	case "samples", "sample", "columns", "column":
		return Samples, nil
	}

	return Observations, fmt.Errorf("Axis %q is not recognized. Valid axes include: observations, samples", name)
}
