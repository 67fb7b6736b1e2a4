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

	"github.com/spf13/cobra"
	"github.com/will-rowe/tilehash/src/minhash"
	"github.com/will-rowe/tilehash/src/misc"
)

// the command line arguments
var (
	setA        *string // first file of integers
	setB        *string // second file of integers
	compareK    *int    // bottom-k sketch size
	compareHash *string // hash function to use
	compareSeed *uint64 // seed for the hash function
)

// the compare command (used by cobra)
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two sets of integers using bottom-k MinHash sketches",
	Long:  `Compare two sets of integers (one per line) using bottom-k MinHash sketches, reporting the estimated and exact Jaccard similarity and cardinalities`,
	Run: func(cmd *cobra.Command, args []string) {
		runCompare()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	setA = compareCmd.Flags().String("setA", "", "first file of integers - required")
	setB = compareCmd.Flags().String("setB", "", "second file of integers - required")
	compareK = compareCmd.Flags().IntP("sketchSize", "k", 128, "size of the bottom-k sketches")
	compareHash = compareCmd.Flags().String("hash", "xxh3", fmt.Sprintf("hash function to use %v", minhash.HashNames()))
	compareSeed = compareCmd.Flags().Uint64("seed", 0, "seed for the hash function")
	compareCmd.MarkFlagRequired("setA")
	compareCmd.MarkFlagRequired("setB")
	RootCmd.AddCommand(compareCmd)
}

/*
  The main function for the compare command
*/
func runCompare() {
	misc.ErrorCheck(misc.CheckFile(*setA))
	misc.ErrorCheck(misc.CheckFile(*setB))
	valuesA, err := misc.ReadValuesFile(*setA)
	misc.ErrorCheck(err)
	valuesB, err := misc.ReadValuesFile(*setB)
	misc.ErrorCheck(err)
	h, err := minhash.NewHasher(*compareHash, *compareSeed)
	misc.ErrorCheck(err)
	sketchA, err := minhash.KMinHash(valuesA, *compareK, h)
	misc.ErrorCheck(err)
	sketchB, err := minhash.KMinHash(valuesB, *compareK, h)
	misc.ErrorCheck(err)
	cardA, err := minhash.Cardinality(sketchA, *compareK)
	misc.ErrorCheck(err)
	cardB, err := minhash.Cardinality(sketchB, *compareK)
	misc.ErrorCheck(err)

	fmt.Printf("jaccard\testimated: %.4f\texact: %.4f\n", minhash.Jaccard(sketchA, sketchB), minhash.ExactJaccard(valuesA, valuesB))
	fmt.Printf("cardinality (setA)\testimated: %d\texact: %d\n", cardA, minhash.ExactCardinality(valuesA))
	fmt.Printf("cardinality (setB)\testimated: %d\texact: %d\n", cardB, minhash.ExactCardinality(valuesB))
}
