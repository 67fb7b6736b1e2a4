package minhash

// KHashMinHash builds a K-Hash Functions sketch, slot i holds the minimum digest produced by hashers[i] over all values.
// An empty input gives a sketch of empty slots.
func KHashMinHash(values []int32, hashers []Hasher) (Sketch, error) {
	if len(hashers) == 0 {
		return nil, ErrNoHashFunctions
	}
	sketch := make(Sketch, len(hashers))
	for i, h := range hashers {
		for _, v := range values {
			sketch[i].offer(h.Hash(v))
		}
	}
	return sketch, nil
}
