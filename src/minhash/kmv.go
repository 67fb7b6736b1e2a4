package minhash

import (
	"container/heap"
	"sort"
)

// KMinHash builds a bottom-k sketch: the k smallest distinct digests of the hashed values, sorted ascending.
// If fewer than k distinct digests are seen, the sketch is padded with empty slots so it always has k slots.
func KMinHash(values []int32, k int, h Hasher) (Sketch, error) {
	if k < 1 {
		return nil, ErrInvalidSketchSize
	}

	// the heap holds the current minimums, the map stops a digest being kept twice
	mins := &digestHeap{}
	heap.Init(mins)
	kept := make(map[uint64]struct{}, k)
	for _, v := range values {
		hv := h.Hash(v)
		if _, ok := kept[hv]; ok {
			continue
		}

		// if the heap isn't full yet, go ahead and add the digest
		if mins.Len() < k {
			heap.Push(mins, hv)
			kept[hv] = struct{}{}

			// or if the digest is smaller than the largest minimum, replace it
		} else if hv < (*mins)[0] {
			delete(kept, (*mins)[0])
			(*mins)[0] = hv
			heap.Fix(mins, 0)
			kept[hv] = struct{}{}
		}
	}

	// sort the minimums and pad the sketch
	sorted := make([]uint64, mins.Len())
	copy(sorted, *mins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sketch := make(Sketch, k)
	for i, hv := range sorted {
		sketch[i] = Filled(hv)
	}
	return sketch, nil
}
