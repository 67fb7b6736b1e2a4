// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/will-rowe/tilehash/src/minhash"
	"github.com/will-rowe/tilehash/src/misc"
)

// the command line arguments
var (
	valuesFile    *string // file of integers to sketch (STDIN if not set)
	sketchMethod  *string // which MinHash flavour to use
	sketchK       *int    // sketch size (bottom-k) or number of hash functions (khf)
	partitionBits *int    // number of partition bits (partition)
	sketchHash    *string // hash function to use
	sketchSeed    *uint64 // seed for the hash function
)

// the sketch command (used by cobra)
var sketchCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Sketch a set of integers and estimate its cardinality",
	Long: `Sketch a set of integers (one per line) using one of the MinHash flavours:

  bottomk   - the k smallest distinct hash values (also reports the KMV cardinality estimate)
  khf       - the minimum hash value from each of k seeded hash functions
  partition - the minimum hash value in each of 2^partitionBits buckets`,
	Run: func(cmd *cobra.Command, args []string) {
		runSketch()
	},
}

// a function to initialise the command line arguments
func init() {
	valuesFile = sketchCmd.Flags().StringP("input", "i", "", "file of integers to sketch, one per line (reads STDIN if not set)")
	sketchMethod = sketchCmd.Flags().StringP("method", "m", "bottomk", "MinHash flavour (bottomk, khf or partition)")
	sketchK = sketchCmd.Flags().IntP("sketchSize", "k", 128, "sketch size (bottomk) or number of hash functions (khf)")
	partitionBits = sketchCmd.Flags().IntP("partitionBits", "b", 8, "number of partition bits (partition)")
	sketchHash = sketchCmd.Flags().String("hash", "xxh3", fmt.Sprintf("hash function to use %v", minhash.HashNames()))
	sketchSeed = sketchCmd.Flags().Uint64("seed", 0, "seed for the hash function")
	RootCmd.AddCommand(sketchCmd)
}

/*
  The main function for the sketch command
*/
func runSketch() {
	values, err := misc.ReadValuesFile(*valuesFile)
	misc.ErrorCheck(err)
	var sketch minhash.Sketch
	switch *sketchMethod {
	case "bottomk":
		h, err := minhash.NewHasher(*sketchHash, *sketchSeed)
		misc.ErrorCheck(err)
		sketch, err = minhash.KMinHash(values, *sketchK, h)
		misc.ErrorCheck(err)
	case "khf":
		family, err := minhash.NewHashFamily(*sketchHash, *sketchK)
		misc.ErrorCheck(err)
		sketch, err = minhash.KHashMinHash(values, family)
		misc.ErrorCheck(err)
	case "partition":
		h, err := minhash.NewHasher(*sketchHash, *sketchSeed)
		misc.ErrorCheck(err)
		sketch, err = minhash.KPartitionMinHash(values, *partitionBits, h)
		misc.ErrorCheck(err)
	default:
		misc.ErrorCheck(fmt.Errorf("unknown sketch method: %v", *sketchMethod))
	}

	// print the sketch, empty slots are shown as -
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "# method: %v, hash: %v, slots: %d, filled: %d\n", *sketchMethod, *sketchHash, len(sketch), sketch.NumFilled())
	for i, slot := range sketch {
		if slot.Filled {
			fmt.Fprintf(w, "%d\t%d\n", i, slot.Digest)
		} else {
			fmt.Fprintf(w, "%d\t-\n", i)
		}
	}
	if *sketchMethod == "bottomk" {
		card, err := minhash.Cardinality(sketch, len(sketch))
		misc.ErrorCheck(err)
		fmt.Fprintf(w, "# estimated cardinality: %d\n", card)
		fmt.Fprintf(w, "# exact cardinality: %d\n", minhash.ExactCardinality(values))
	}
	misc.ErrorCheck(w.Flush())
}
