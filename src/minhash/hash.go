package minhash

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-metro"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher is the hash capability used by the sketch builders, it must be deterministic
type Hasher interface {
	Hash(int32) uint64
}

// HashFunc lets an ordinary function be used as a Hasher
type HashFunc func(int32) uint64

// Hash calls f(v)
func (f HashFunc) Hash(v int32) uint64 {
	return f(v)
}

// hashStrategy builds a Hasher for a given seed
type hashStrategy struct {
	seeded bool
	build  func(seed uint64) Hasher
}

// strategies relates a hash name to its constructor
var strategies = map[string]hashStrategy{
	"identity": {
		seeded: false,
		build: func(uint64) Hasher {
			return HashFunc(func(v int32) uint64 { return uint64(uint32(v)) })
		},
	},
	"xxhash": {
		seeded: false,
		build: func(uint64) Hasher {
			return HashFunc(func(v int32) uint64 {
				b := encode(v)
				return xxhash.Sum64(b[:])
			})
		},
	},
	"xxh3": {
		seeded: true,
		build: func(seed uint64) Hasher {
			return HashFunc(func(v int32) uint64 {
				b := encode(v)
				return xxh3.HashSeed(b[:], seed)
			})
		},
	},
	"metro": {
		seeded: true,
		build: func(seed uint64) Hasher {
			return HashFunc(func(v int32) uint64 {
				b := encode(v)
				return metro.Hash64(b[:], seed)
			})
		},
	},
	"murmur3": {
		seeded: true,
		build: func(seed uint64) Hasher {
			return HashFunc(func(v int32) uint64 {
				b := encode(v)
				return murmur3.Sum64WithSeed(b[:], uint32(seed))
			})
		},
	},
}

// encode writes the value as 4 little endian bytes
func encode(v int32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b
}

// HashNames returns the names of the available hash functions
func HashNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewHasher returns the named hash function, the seed is ignored by unseeded functions
func NewHasher(name string, seed uint64) (Hasher, error) {
	strategy, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownHash, name, HashNames())
	}
	return strategy.build(seed), nil
}

// NewHashFamily returns n independent hash functions of the named type, seeded 0..n-1
func NewHashFamily(name string, n int) ([]Hasher, error) {
	if n < 1 {
		return nil, ErrNoHashFunctions
	}
	strategy, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownHash, name, HashNames())
	}
	if n > 1 && !strategy.seeded {
		return nil, fmt.Errorf("%w: %q", ErrUnseededFamily, name)
	}
	family := make([]Hasher, n)
	for i := range family {
		family[i] = strategy.build(uint64(i))
	}
	return family, nil
}
