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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/will-rowe/tilehash/src/graph"
	"github.com/will-rowe/tilehash/src/misc"
	"github.com/will-rowe/tilehash/src/pipeline"
	"github.com/will-rowe/tilehash/src/reporting"
	"github.com/will-rowe/tilehash/src/tiles"
	"github.com/will-rowe/tilehash/src/version"
)

// the command line arguments
var (
	graphDir     *string  // directory made by the graph command
	reportThresh *float64 // new Jaccard similarity threshold (needs saved sketches)
	reportTSV    *bool    // print the edges as TSV
	reportPlot   *string  // file to plot the edge weights to
)

// the report command (used by cobra)
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise a graph made by the graph command",
	Long: `Summarise a graph made by the graph command.

If the graph was made with --saveSketches, the image pairs can be compared again using a
different Jaccard similarity threshold without reloading the images.`,
	Run: func(cmd *cobra.Command, args []string) {
		runReport()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	graphDir = reportCmd.Flags().StringP("graphDir", "g", "", "directory containing the output of the graph command - required")
	reportThresh = reportCmd.Flags().Float64P("jsThresh", "j", -1, "compare the saved tile sketches again with this Jaccard similarity threshold")
	reportTSV = reportCmd.Flags().Bool("tsv", false, "print the graph edges as TSV")
	reportPlot = reportCmd.Flags().String("plot", "", "save a histogram of the edge weights to this file (png, svg or pdf)")
	reportCmd.MarkFlagRequired("graphDir")
	RootCmd.AddCommand(reportCmd)
}

/*
  The main function for the report command
*/
func runReport() {
	misc.ErrorCheck(misc.CheckDir(*graphDir))

	// check the graph was made by a compatible version
	info := new(pipeline.Info)
	misc.ErrorCheck(info.Load(filepath.Join(*graphDir, "run.info")))
	if !strings.HasPrefix(info.Version, version.GetBaseVersion()+".") {
		misc.ErrorCheck(fmt.Errorf("the graph was made with a different version of tilehash (%v), please rebuild it with version %v", info.Version, version.GetVersion()))
	}
	simGraph, err := graph.Load(filepath.Join(*graphDir, "graph.msgpack"))
	misc.ErrorCheck(err)

	// rebuild the edges from the saved sketches if a new threshold is given
	if *reportThresh >= 0 {
		sketchFile := filepath.Join(*graphDir, "sketches.msgpack")
		if misc.CheckFile(sketchFile) != nil {
			misc.ErrorCheck(fmt.Errorf("no saved sketches found in %v (rerun graph with --saveSketches)", *graphDir))
		}
		matrices, err := tiles.Load(sketchFile)
		misc.ErrorCheck(err)
		misc.ErrorCheck(simGraph.Rescore(matrices, *reportThresh))
	}

	summary := reporting.Summarise(simGraph.Edges, simGraph.NumTiles)
	fmt.Printf("images: %d\n", len(simGraph.Sources))
	fmt.Printf("tiles: %dx%d, sketch size: %d, hash: %v, jsThresh: %.2f\n", simGraph.NumTiles, simGraph.NumTiles, simGraph.SketchSize, simGraph.HashName, simGraph.Threshold)
	fmt.Printf("image pairs: %d\n", summary.Edges)
	fmt.Printf("matching tiles per pair: min %d, max %d, mean %.2f\n", summary.Min, summary.Max, summary.Mean)
	fmt.Printf("pairs with every tile matching: %d\n", summary.Full)
	if *reportTSV {
		misc.ErrorCheck(simGraph.WriteTSV(os.Stdout))
	}
	if *reportPlot != "" {
		misc.ErrorCheck(reporting.PlotWeights(simGraph.Edges, simGraph.NumTiles, *reportPlot))
	}
}
