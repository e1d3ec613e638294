package predict

import (
	"fmt"
)

// EmptyOverlapError is returned when the abundance and trait tables share no
// organism ids, so nothing can be predicted.
type EmptyOverlapError struct {
	AbundanceIDs int
	TraitIDs     int
}

func (e EmptyOverlapError) Error() string {
	return fmt.Sprintf("No common OTU IDs between the %d ids of the OTU table and the %d ids of the trait table", e.AbundanceIDs, e.TraitIDs)
}
