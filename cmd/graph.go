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
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/will-rowe/tilehash/src/imageio"
	"github.com/will-rowe/tilehash/src/minhash"
	"github.com/will-rowe/tilehash/src/misc"
	"github.com/will-rowe/tilehash/src/pipeline"
	"github.com/will-rowe/tilehash/src/reporting"
	"github.com/will-rowe/tilehash/src/tiles"
	"github.com/will-rowe/tilehash/src/version"
)

// the command line arguments
var (
	imageDir       *string  // directory containing the input images
	imageArchive   *string  // archive of input images, unpacked into the outDir
	numTiles       *int     // number of tiles along each side of an image
	tileSketchSize *int     // size of the bottom-k sketch made for each tile
	tileHash       *string  // hash function used to sketch tiles
	jsThresh       *float64 // minimum Jaccard similarity for two tiles to match
	maxDim         *int     // downscale images so their longest side is at most this
	outDir         *string  // directory to save the graph and log to
	plotWeights    *bool    // plot a histogram of the edge weights
	saveSketches   *bool    // save the tile matrices
	imageList      []string // the collected image files
)

// a default dir to store the output files
var defaultGraphDir = "./tilehash-graph-" + time.Now().Format("20060102150405")

// the graph command (used by cobra)
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build a tile similarity graph for a set of images",
	Long: `Build a tile similarity graph for a set of images.

Each image is split into a numTiles x numTiles grid and the lightness values in each tile are
sketched with bottom-k MinHash. Every pair of images is then compared tile by tile, and the
number of tiles with an estimated Jaccard similarity >= jsThresh is recorded as the edge weight.`,
	Run: func(cmd *cobra.Command, args []string) {
		runGraph()
	},
}

// a function to initialise the command line arguments
func init() {
	imageDir = graphCmd.Flags().StringP("imageDir", "i", "", "directory containing the images (png, jpeg, gif, bmp, tiff, webp)")
	imageArchive = graphCmd.Flags().StringP("archive", "a", "", "archive (zip, tar, tar.gz) of images to use instead of --imageDir")
	numTiles = graphCmd.Flags().IntP("numTiles", "t", 8, "number of tiles along each side of an image")
	tileSketchSize = graphCmd.Flags().IntP("sketchSize", "k", 32, "size of the MinHash sketch for each tile")
	tileHash = graphCmd.Flags().String("hash", "xxh3", fmt.Sprintf("hash function to use %v", minhash.HashNames()))
	jsThresh = graphCmd.Flags().Float64P("jsThresh", "j", 0.8, "minimum Jaccard similarity for two tiles to match")
	maxDim = graphCmd.Flags().Int("maxDim", 0, "scale images down so that their longest side is at most this (0 to disable)")
	outDir = graphCmd.Flags().StringP("outDir", "o", defaultGraphDir, "directory to save the graph files to")
	plotWeights = graphCmd.Flags().Bool("plot", false, "plot a histogram of the edge weights")
	saveSketches = graphCmd.Flags().Bool("saveSketches", false, "save the tile sketches for each image")
	RootCmd.AddCommand(graphCmd)
}

// a function to check user supplied parameters
func graphParamCheck() error {
	if *imageDir == "" && *imageArchive == "" {
		return fmt.Errorf("no images specified - run `tilehash graph --help` for more info on the command")
	}
	if *imageDir != "" && *imageArchive != "" {
		return fmt.Errorf("use either --imageDir or --archive, not both")
	}
	if *numTiles < 1 {
		return fmt.Errorf("number of tiles must be positive")
	}
	if *tileSketchSize < 1 {
		return fmt.Errorf("sketch size must be positive")
	}
	if *jsThresh < 0 || *jsThresh > 1 {
		return fmt.Errorf("jsThresh must be in the range [0,1]")
	}
	if *maxDim < 0 {
		return fmt.Errorf("maxDim can't be negative")
	}
	if _, err := minhash.NewHasher(*tileHash, 0); err != nil {
		return err
	}

	// setup the outDir
	if _, err := os.Stat(*outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(*outDir, 0700); err != nil {
			return fmt.Errorf("can't create specified output directory")
		}
	}

	// unpack any archive, then collect the images
	if *imageArchive != "" {
		*imageDir = filepath.Join(*outDir, "images")
		if err := imageio.Unpack(*imageArchive, *imageDir); err != nil {
			return err
		}
	}
	var err error
	imageList, err = imageio.Collect(*imageDir)
	if err != nil {
		return err
	}
	if len(imageList) < 2 {
		return fmt.Errorf("need at least 2 images to build a graph, found %d", len(imageList))
	}

	// set number of processors to use
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	return nil
}

/*
  The main function for the graph command
*/
func runGraph() {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("tilehash (version %s)", version.GetVersion())
	log.Printf("starting the graph subcommand")
	// check the supplied files and then log some stuff
	log.Printf("checking parameters...")
	misc.ErrorCheck(graphParamCheck())
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tnumber of tiles: %dx%d", *numTiles, *numTiles)
	log.Printf("\tsketch size: %d", *tileSketchSize)
	log.Printf("\thash function: %v", *tileHash)
	log.Printf("\tJaccard similarity threshold: %.2f", *jsThresh)
	if *maxDim > 0 {
		log.Printf("\tmax image dimension: %d", *maxDim)
	}
	log.Printf("\tnumber of images found: %d", len(imageList))
	///////////////////////////////////////////////////////////////////////////////////////
	info := &pipeline.Info{
		Version:    version.GetVersion(),
		NumProc:    *proc,
		Profiling:  *profiling,
		NumTiles:   *numTiles,
		SketchSize: *tileSketchSize,
		HashName:   *tileHash,
		Threshold:  *jsThresh,
		MaxDim:     *maxDim,
		OutDir:     *outDir,
	}
	log.Printf("sketching images and building the graph...")
	graphPipeline := pipeline.NewPipeline()
	matrixBuilder := pipeline.NewMatrixBuilder(info)
	graphBuilder := pipeline.NewGraphBuilder(info)
	matrixBuilder.Connect(imageList)
	graphBuilder.Connect(matrixBuilder)
	graphPipeline.AddProcesses(matrixBuilder, graphBuilder)
	graphPipeline.Run()
	log.Printf("\tmemory: %v", misc.PrintMemUsage())
	///////////////////////////////////////////////////////////////////////////////////////
	log.Printf("saving files to \"%v\"...", *outDir)
	simGraph := info.Graph()
	misc.ErrorCheck(info.Dump(filepath.Join(*outDir, "run.info")))
	log.Printf("\tsaved runtime info")
	misc.ErrorCheck(simGraph.Dump(filepath.Join(*outDir, "graph.msgpack")))
	tsv, err := os.Create(filepath.Join(*outDir, "graph.tsv"))
	misc.ErrorCheck(err)
	defer tsv.Close()
	misc.ErrorCheck(simGraph.WriteTSV(tsv))
	log.Printf("\tsaved graph")
	if *saveSketches {
		misc.ErrorCheck(tiles.Dump(filepath.Join(*outDir, "sketches.msgpack"), info.Matrices()))
		log.Printf("\tsaved tile sketches")
	}
	if *plotWeights {
		misc.ErrorCheck(reporting.PlotWeights(simGraph.Edges, *numTiles, filepath.Join(*outDir, "weights.png")))
		log.Printf("\tsaved edge weight plot")
	}
	log.Println("finished")
}
