// Package minhash contains implementations of bottom-k, k-hash-function and partitioned MinHash sketches, along with the similarity and cardinality estimators that use them.
package minhash

import (
	"errors"
	"math"
)

// error messages
var (
	ErrInvalidSketchSize    = errors.New("minhash: sketch size must be positive")
	ErrNoHashFunctions      = errors.New("minhash: at least one hash function is required")
	ErrInvalidPartitionBits = errors.New("minhash: partition bits must be in the range [0,64]")
	ErrPartitionTooLarge    = errors.New("minhash: too many partitions to allocate")
	ErrUndefinedEstimate    = errors.New("minhash: k-th minimum is zero, cardinality estimate is undefined")
	ErrUnknownHash          = errors.New("minhash: unknown hash function")
	ErrUnseededFamily       = errors.New("minhash: hash function can't be seeded to build a family")
)

// Slot is a single position in a sketch. The zero value is an empty slot (no digest observed).
type Slot struct {
	Digest uint64 `msgpack:"d"`
	Filled bool   `msgpack:"f"`
}

// Filled returns a slot holding digest d
func Filled(d uint64) Slot {
	return Slot{Digest: d, Filled: true}
}

// offer keeps the smaller of the current digest and d
func (slot *Slot) offer(d uint64) {
	if !slot.Filled || d < slot.Digest {
		slot.Digest = d
		slot.Filled = true
	}
}

// Sketch is an ordered set of slots produced by one of the MinHash builders
type Sketch []Slot

// Digests returns the filled digests of the sketch, in slot order
func (sketch Sketch) Digests() []uint64 {
	digests := make([]uint64, 0, len(sketch))
	for _, slot := range sketch {
		if slot.Filled {
			digests = append(digests, slot.Digest)
		}
	}
	return digests
}

// NumFilled returns the number of slots holding a digest
func (sketch Sketch) NumFilled() int {
	n := 0
	for _, slot := range sketch {
		if slot.Filled {
			n++
		}
	}
	return n
}

// Raw returns the sketch as a []uint64, with empty slots set to math.MaxUint64
func (sketch Sketch) Raw() []uint64 {
	raw := make([]uint64, len(sketch))
	for i, slot := range sketch {
		if slot.Filled {
			raw[i] = slot.Digest
		} else {
			raw[i] = math.MaxUint64
		}
	}
	return raw
}

// Equal reports whether two sketches hold the same slots
func (sketch Sketch) Equal(other Sketch) bool {
	if len(sketch) != len(other) {
		return false
	}
	for i, slot := range sketch {
		if slot != other[i] {
			return false
		}
	}
	return true
}
