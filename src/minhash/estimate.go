package minhash

import "math"

// Jaccard estimates the Jaccard similarity of two sketches.
// The intersection is the number of filled slots in a whose digest is present anywhere in b,
// the union is the number of distinct digests across both sketches. Two empty sketches give 0.
func Jaccard(a, b Sketch) float64 {
	inB := make(map[uint64]struct{}, len(b))
	for _, slot := range b {
		if slot.Filled {
			inB[slot.Digest] = struct{}{}
		}
	}
	union := make(map[uint64]struct{}, len(a)+len(inB))
	intersect := 0
	for _, slot := range a {
		if !slot.Filled {
			continue
		}
		union[slot.Digest] = struct{}{}
		if _, ok := inB[slot.Digest]; ok {
			intersect++
		}
	}
	for hv := range inB {
		union[hv] = struct{}{}
	}
	if len(union) == 0 {
		return 0.0
	}
	return float64(intersect) / float64(len(union))
}

// Cardinality estimates the number of distinct values behind an ascending bottom-k sketch (K-Minimum Values).
//
// An empty sketch, or a k larger than the sketch, returns 0 with no error. An empty k-th slot counts as the
// top of the hash space, giving an estimate of k-1. A zero k-th digest can't be estimated from and returns
// ErrUndefinedEstimate. Estimates beyond the range of an int saturate at math.MaxInt.
func Cardinality(sketch Sketch, k int) (int, error) {
	if len(sketch) == 0 {
		return 0, nil
	}
	if k < 1 {
		return 0, ErrInvalidSketchSize
	}
	if k > len(sketch) {
		return 0, nil
	}
	normalised := 1.0
	if kth := sketch[k-1]; kth.Filled {
		if kth.Digest == 0 {
			return 0, ErrUndefinedEstimate
		}
		normalised = float64(kth.Digest) / float64(math.MaxUint64)
	}
	estimate := math.Ceil(float64(k)/normalised - 1)
	if estimate >= float64(math.MaxInt) {
		return math.MaxInt, nil
	}
	return int(estimate), nil
}

// ExactJaccard returns the true Jaccard similarity of two value sets, 0 if both are empty
func ExactJaccard(a, b []int32) float64 {
	setA := toSet(a)
	setB := toSet(b)
	intersect := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			intersect++
		}
	}
	union := len(setA) + len(setB) - intersect
	if union == 0 {
		return 0.0
	}
	return float64(intersect) / float64(union)
}

// ExactCardinality returns the number of distinct values
func ExactCardinality(values []int32) int {
	return len(toSet(values))
}

func toSet(values []int32) map[int32]struct{} {
	set := make(map[int32]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
