package minhash

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

var (
	identity   = HashFunc(func(v int32) uint64 { return uint64(v) })
	square     = HashFunc(func(v int32) uint64 { return uint64(v) * uint64(v) })
	values     = []int32{5, 3, 3, 8, 1}
	sketchSize = 3
)

// randomValues is a helper function for generating a reproducible set of test values
func randomValues(n int, seed int64) []int32 {
	r := rand.New(rand.NewSource(seed))
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = r.Int31()
	}
	return vals
}

// sketchCheck is a helper function to make sure a bottom-k sketch is well formed
func sketchCheck(t *testing.T, sketch Sketch, k int) {
	t.Helper()
	if len(sketch) != k {
		t.Fatalf("sketch has %d slots, expected %d", len(sketch), k)
	}
	seenEmpty := false
	for i, slot := range sketch {
		if !slot.Filled {
			seenEmpty = true
			continue
		}
		if seenEmpty {
			t.Fatalf("filled slot %d follows an empty slot", i)
		}
		if i > 0 && slot.Digest <= sketch[i-1].Digest {
			t.Fatalf("sketch is not strictly increasing at slot %d: %v", i, sketch)
		}
	}
}

func TestKMinHash(t *testing.T) {
	sketch, err := KMinHash(values, sketchSize, identity)
	if err != nil {
		t.Fatal(err)
	}
	expected := Sketch{Filled(1), Filled(3), Filled(5)}
	if !sketch.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, sketch)
	}

	// fewer distinct values than k should be padded with empty slots
	sketch, err = KMinHash([]int32{2, 2}, sketchSize, identity)
	if err != nil {
		t.Fatal(err)
	}
	if !sketch.Equal(Sketch{Filled(2), {}, {}}) {
		t.Fatalf("sketch was not padded correctly: %v", sketch)
	}
	sketch, err = KMinHash(nil, sketchSize, identity)
	if err != nil {
		t.Fatal(err)
	}
	if len(sketch) != sketchSize || sketch.NumFilled() != 0 {
		t.Fatalf("empty input should give %d empty slots, got %v", sketchSize, sketch)
	}

	// a zero sketch size is an error
	if _, err := KMinHash(values, 0, identity); !errors.Is(err, ErrInvalidSketchSize) {
		t.Fatalf("expected ErrInvalidSketchSize, got %v", err)
	}
}

func TestKMinHashProperties(t *testing.T) {
	h, err := NewHasher("murmur3", 42)
	if err != nil {
		t.Fatal(err)
	}
	vals := randomValues(1000, 1)
	for _, k := range []int{1, 7, 64, 999, 2000} {
		sketch, err := KMinHash(vals, k, h)
		if err != nil {
			t.Fatal(err)
		}
		sketchCheck(t, sketch, k)
	}

	// reordering and duplicating the input shouldn't change the sketch
	reference, err := KMinHash(vals, 64, h)
	if err != nil {
		t.Fatal(err)
	}
	shuffled := append([]int32{}, vals...)
	shuffled = append(shuffled, vals[:500]...)
	rand.New(rand.NewSource(2)).Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	sketch, err := KMinHash(shuffled, 64, h)
	if err != nil {
		t.Fatal(err)
	}
	if !sketch.Equal(reference) {
		t.Fatal("sketch changed after reordering and duplicating the input")
	}
}

func TestKHashMinHash(t *testing.T) {
	sketch, err := KHashMinHash([]int32{4, 2, 7}, []Hasher{identity, square})
	if err != nil {
		t.Fatal(err)
	}
	if !sketch.Equal(Sketch{Filled(2), Filled(4)}) {
		t.Fatalf("expected [2 4], got %v", sketch.Digests())
	}
	sketch, err = KHashMinHash(nil, []Hasher{identity, square})
	if err != nil {
		t.Fatal(err)
	}
	if len(sketch) != 2 || sketch.NumFilled() != 0 {
		t.Fatalf("empty input should give an empty sketch, got %v", sketch)
	}
	if _, err := KHashMinHash(values, nil); !errors.Is(err, ErrNoHashFunctions) {
		t.Fatalf("expected ErrNoHashFunctions, got %v", err)
	}
}

func TestKPartitionMinHash(t *testing.T) {
	// put the value in the top two bits so that it picks the bucket
	routed := HashFunc(func(v int32) uint64 { return uint64(v%4)<<62 | uint64(v) })
	sketch, err := KPartitionMinHash([]int32{9, 5, 2, 6, 11, 7}, 2, routed)
	if err != nil {
		t.Fatal(err)
	}
	expected := Sketch{{}, Filled(1<<62 | 5), Filled(2<<62 | 2), Filled(3<<62 | 7)}
	if !sketch.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, sketch)
	}

	// zero bits puts everything in one bucket
	sketch, err = KPartitionMinHash(values, 0, identity)
	if err != nil {
		t.Fatal(err)
	}
	if !sketch.Equal(Sketch{Filled(1)}) {
		t.Fatalf("expected a single slot holding 1, got %v", sketch)
	}
	if Partition(math.MaxUint64, 3) != 7 || Partition(1, 64) != 1 {
		t.Fatal("partition is not using the top bits of the digest")
	}

	for _, bits := range []int{-1, 65} {
		if _, err := KPartitionMinHash(values, bits, identity); !errors.Is(err, ErrInvalidPartitionBits) {
			t.Fatalf("expected ErrInvalidPartitionBits for %d bits, got %v", bits, err)
		}
	}
	if _, err := KPartitionMinHash(values, 64, identity); !errors.Is(err, ErrPartitionTooLarge) {
		t.Fatalf("expected ErrPartitionTooLarge, got %v", err)
	}
}

func TestJaccard(t *testing.T) {
	a := Sketch{Filled(1), Filled(2), Filled(3)}
	b := Sketch{Filled(2), Filled(3), Filled(4)}
	if js := Jaccard(a, a); js != 1.0 {
		t.Fatalf("sketch compared to itself should be 1.0, not %.2f", js)
	}
	if js := Jaccard(a, b); js != 0.5 {
		t.Fatalf("expected 0.5, got %.2f", js)
	}
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Fatal("jaccard estimate is not symmetric")
	}
	if js := Jaccard(Sketch{{}, {}}, Sketch{{}}); js != 0.0 {
		t.Fatalf("empty sketches should give 0.0, not %.2f", js)
	}
	if js := Jaccard(a, Sketch{{}, {}, {}}); js != 0.0 {
		t.Fatalf("expected 0.0 against an empty sketch, got %.2f", js)
	}

	// the maximum digest is a real value, not a missing one
	c := Sketch{Filled(math.MaxUint64)}
	if js := Jaccard(c, c); js != 1.0 {
		t.Fatalf("expected 1.0 for a sketch holding the maximum digest, got %.2f", js)
	}

	// estimate should be close to the truth for large sketches of overlapping sets
	h, err := NewHasher("xxh3", 0)
	if err != nil {
		t.Fatal(err)
	}
	setA := randomValues(2000, 3)
	setB := append(append([]int32{}, setA[:1000]...), randomValues(1000, 4)...)
	skA, _ := KMinHash(setA, 2000, h)
	skB, _ := KMinHash(setB, 2000, h)
	if math.Abs(Jaccard(skA, skB)-ExactJaccard(setA, setB)) > 1e-9 {
		t.Fatal("sketches holding the whole sets should reproduce the exact jaccard")
	}
}

func TestCardinality(t *testing.T) {
	sketch := Sketch{Filled(1), Filled(2)}
	if card, err := Cardinality(sketch, 3); err != nil || card != 0 {
		t.Fatalf("k larger than the sketch should give 0, got %d (%v)", card, err)
	}
	if card, err := Cardinality(Sketch{}, 1); err != nil || card != 0 {
		t.Fatalf("empty sketch should give 0, got %d (%v)", card, err)
	}
	if card, err := Cardinality(Sketch{}, 0); err != nil || card != 0 {
		t.Fatalf("empty sketch should give 0 for any k, got %d (%v)", card, err)
	}
	if _, err := Cardinality(sketch, 0); !errors.Is(err, ErrInvalidSketchSize) {
		t.Fatalf("expected ErrInvalidSketchSize, got %v", err)
	}
	if _, err := Cardinality(Sketch{Filled(0)}, 1); !errors.Is(err, ErrUndefinedEstimate) {
		t.Fatalf("expected ErrUndefinedEstimate, got %v", err)
	}

	// an unfilled k-th slot sits at the top of the hash space: k/1 - 1
	if card, err := Cardinality(Sketch{Filled(7), Filled(9), {}, {}}, 4); err != nil || card != 3 {
		t.Fatalf("expected 3, got %d (%v)", card, err)
	}
	underFilled, err := KMinHash([]int32{1, 2, 3}, 5, identity)
	if err != nil {
		t.Fatal(err)
	}
	if card, err := Cardinality(underFilled, 5); err != nil || card != 4 {
		t.Fatalf("expected 4 for an under-filled sketch, got %d (%v)", card, err)
	}

	// k-th minimum at a quarter of the hash space: 4/0.25 - 1
	quarter := Sketch{Filled(1), Filled(2), Filled(3), Filled(math.MaxUint64 / 4)}
	if card, err := Cardinality(quarter, 4); err != nil || card != 15 {
		t.Fatalf("expected 15, got %d (%v)", card, err)
	}
	if card, err := Cardinality(Sketch{Filled(1)}, 1); err != nil || card != math.MaxInt {
		t.Fatalf("expected a saturated estimate, got %d (%v)", card, err)
	}

	// check the estimate for a real hash function
	h, err := NewHasher("xxh3", 7)
	if err != nil {
		t.Fatal(err)
	}
	vals := randomValues(20000, 5)
	exact := ExactCardinality(vals)
	sk, err := KMinHash(vals, 512, h)
	if err != nil {
		t.Fatal(err)
	}
	card, err := Cardinality(sk, 512)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("exact cardinality: %d, estimated: %d", exact, card)
	if math.Abs(float64(card-exact))/float64(exact) > 0.25 {
		t.Fatalf("cardinality estimate %d is too far from %d", card, exact)
	}
}

func TestExactEstimators(t *testing.T) {
	if card := ExactCardinality([]int32{1, 1, 2, 3, 3, 3}); card != 3 {
		t.Fatalf("expected 3, got %d", card)
	}
	if js := ExactJaccard(values, values); js != 1.0 {
		t.Fatalf("identical lists should give 1.0, not %.2f", js)
	}
	if js := ExactJaccard([]int32{1, 2}, []int32{3, 4}); js != 0.0 {
		t.Fatalf("disjoint lists should give 0.0, not %.2f", js)
	}
	if js := ExactJaccard(nil, nil); js != 0.0 {
		t.Fatalf("empty lists should give 0.0, not %.2f", js)
	}
	if js := ExactJaccard([]int32{1, 2, 3}, []int32{2, 3, 4}); js != 0.5 {
		t.Fatalf("expected 0.5, got %.2f", js)
	}
}

func TestHashers(t *testing.T) {
	for _, name := range HashNames() {
		h, err := NewHasher(name, 1)
		if err != nil {
			t.Fatal(err)
		}
		if h.Hash(12345) != h.Hash(12345) {
			t.Fatalf("%v hash is not deterministic", name)
		}
	}
	family, err := NewHashFamily("murmur3", 3)
	if err != nil {
		t.Fatal(err)
	}
	if family[0].Hash(99) == family[1].Hash(99) || family[1].Hash(99) == family[2].Hash(99) {
		t.Fatal("hash family members should use different seeds")
	}
	metroFamily, err := NewHashFamily("metro", 2)
	if err != nil {
		t.Fatal(err)
	}
	if metroFamily[0].Hash(99) == metroFamily[1].Hash(99) {
		t.Fatal("metro family members should use different seeds")
	}
	if _, err := NewHashFamily("xxhash", 2); !errors.Is(err, ErrUnseededFamily) {
		t.Fatalf("expected ErrUnseededFamily, got %v", err)
	}
	if _, err := NewHasher("md5", 0); !errors.Is(err, ErrUnknownHash) {
		t.Fatalf("expected ErrUnknownHash, got %v", err)
	}
	if _, err := NewHashFamily("xxh3", 0); !errors.Is(err, ErrNoHashFunctions) {
		t.Fatalf("expected ErrNoHashFunctions, got %v", err)
	}
}

func TestSketchHelpers(t *testing.T) {
	sketch := Sketch{Filled(3), Filled(8), {}}
	raw := sketch.Raw()
	if raw[0] != 3 || raw[1] != 8 || raw[2] != math.MaxUint64 {
		t.Fatalf("raw sketch is wrong: %v", raw)
	}
	if d := sketch.Digests(); len(d) != 2 || sketch.NumFilled() != 2 {
		t.Fatalf("expected two filled digests, got %v", d)
	}
}

// benchmark bottom-k
func BenchmarkKMinHash(b *testing.B) {
	h, _ := NewHasher("xxh3", 0)
	vals := randomValues(10000, 6)
	for n := 0; n < b.N; n++ {
		if _, err := KMinHash(vals, 128, h); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmark k-hash functions
func BenchmarkKHashMinHash(b *testing.B) {
	family, _ := NewHashFamily("xxh3", 128)
	vals := randomValues(10000, 6)
	for n := 0; n < b.N; n++ {
		if _, err := KHashMinHash(vals, family); err != nil {
			b.Fatal(err)
		}
	}
}
