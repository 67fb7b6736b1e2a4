package minhash

import "fmt"

// MaxPartitionBits is the largest number of partition bits a sketch will be allocated for (16M slots)
const MaxPartitionBits = 24

// KPartitionMinHash builds a partitioned sketch of 2^partitionBits slots.
// Each digest is routed to the slot given by its top partitionBits bits and the slot keeps the minimum digest routed to it.
func KPartitionMinHash(values []int32, partitionBits int, h Hasher) (Sketch, error) {
	if partitionBits < 0 || partitionBits > 64 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPartitionBits, partitionBits)
	}
	if partitionBits > MaxPartitionBits {
		return nil, fmt.Errorf("%w: %d bits (max %d)", ErrPartitionTooLarge, partitionBits, MaxPartitionBits)
	}
	sketch := make(Sketch, 1<<uint(partitionBits))
	for _, v := range values {
		hv := h.Hash(v)
		sketch[Partition(hv, partitionBits)].offer(hv)
	}
	return sketch, nil
}

// Partition returns the bucket for a digest: its top partitionBits bits.
// A shift of 64 yields 0, so zero partition bits routes everything to bucket 0.
func Partition(hv uint64, partitionBits int) uint64 {
	return hv >> uint(64-partitionBits)
}
