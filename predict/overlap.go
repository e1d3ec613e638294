// Package predict combines an OTU abundance table with a table of per-organism
// trait copy numbers to predict the functional content of each sample.
package predict

// OverlappingIDs returns the ids found in both a and b, in the order they
// appear in a and without repeats. An empty intersection is an
// EmptyOverlapError.
func OverlappingIDs(a, b []string) ([]string, error) {
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, id := range a {
		if _, ok := inB[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) == 0 {
		return nil, EmptyOverlapError{AbundanceIDs: len(a), TraitIDs: len(b)}
	}

	return out, nil
}
