package minhash

// digestHeap is a max-heap of digests (satisfies container/heap), the largest kept minimum sits at index 0
type digestHeap []uint64

func (h digestHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h digestHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h digestHeap) Len() int           { return len(h) }

// Push is a method to add a digest to the heap
func (h *digestHeap) Push(x interface{}) {
	*h = append(*h, x.(uint64))
}

// Pop is a method to remove the last digest from the heap
func (h *digestHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
