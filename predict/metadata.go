package predict

import (
	"github.com/carbocation/metagenomisc/biom"
)

// TransferMetadata copies the metadata that from carries along fromAxis onto
// the ids of to's toAxis that match. Ids of to without a match keep whatever
// metadata they had, including none. Neither table is modified; when nothing
// matches, to itself is returned.
func TransferMetadata(from, to *biom.Table, fromAxis, toAxis biom.Axis) (*biom.Table, error) {
	source := from.Metadata(fromAxis)
	if source == nil {
		return to, nil
	}

	ids := to.IDs(toAxis)
	md := to.Metadata(toAxis)
	if md == nil {
		md = make([]biom.Metadata, len(ids))
	}

	matched := 0
	for i, id := range ids {
		j, ok := from.Index(fromAxis, id)
		if !ok {
			continue
		}
		md[i] = source[j]
		matched++
	}

	if matched == 0 {
		return to, nil
	}

	return to.WithMetadata(toAxis, md)
}

// TransferSampleMetadata copies sample metadata between tables that share
// sample ids.
func TransferSampleMetadata(from, to *biom.Table) (*biom.Table, error) {
	return TransferMetadata(from, to, biom.Samples, biom.Samples)
}

// TransferObservationMetadata copies observation metadata between tables that
// share observation ids.
func TransferObservationMetadata(from, to *biom.Table) (*biom.Table, error) {
	return TransferMetadata(from, to, biom.Observations, biom.Observations)
}
