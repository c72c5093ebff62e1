package network

import (
	"fmt"
	"sort"

	"github.com/causaltrail-go/engine/errs"
)

// DenseIDMap resolves sparse, externally supplied node identifiers (as found
// in TGF/SIF/NA topology files) to the dense, 0-based IDs the network uses
// internally. It mirrors the original lower_bound-over-sorted-pairs lookup:
// build once from the known original IDs, then binary-search per query.
type DenseIDMap struct {
	originalIDs []int // sorted, unique
}

// NewDenseIDMap builds a lookup table from a set of original IDs, assigning
// dense IDs in ascending original-ID order.
func NewDenseIDMap(originalIDs []int) *DenseIDMap {
	sorted := append([]int(nil), originalIDs...)
	sort.Ints(sorted)

	deduped := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			deduped = append(deduped, id)
		}
	}
	return &DenseIDMap{originalIDs: deduped}
}

// Lookup returns the dense ID for an original ID via binary search over the
// sorted original-ID list.
func (d *DenseIDMap) Lookup(originalID int) (int, error) {
	i := sort.Search(len(d.originalIDs), func(i int) bool { return d.originalIDs[i] >= originalID })
	if i >= len(d.originalIDs) || d.originalIDs[i] != originalID {
		return 0, fmt.Errorf("%w: original id %d", errs.ErrNotFound, originalID)
	}
	return i, nil
}

// Len returns how many distinct original IDs are registered.
func (d *DenseIDMap) Len() int { return len(d.originalIDs) }
