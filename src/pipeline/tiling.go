package pipeline

/*
 this part of the pipeline loads images, builds a tile matrix for each one and then compares every pair of matrices
*/

import (
	"fmt"
	"log"
	"sync"

	"github.com/will-rowe/tilehash/src/graph"
	"github.com/will-rowe/tilehash/src/imageio"
	"github.com/will-rowe/tilehash/src/misc"
	"github.com/will-rowe/tilehash/src/reporting"
	"github.com/will-rowe/tilehash/src/tiles"
)

// sketchedImage is a tile matrix and the index of the image it came from
type sketchedImage struct {
	id     int
	matrix *tiles.Matrix
}

// MatrixBuilder is a pipeline process that loads images and converts them to tile matrices
type MatrixBuilder struct {
	info   *Info
	input  []string
	output chan *sketchedImage
}

// NewMatrixBuilder is the constructor
func NewMatrixBuilder(info *Info) *MatrixBuilder {
	return &MatrixBuilder{info: info, output: make(chan *sketchedImage, BUFFERSIZE)}
}

// Connect is the method to connect the MatrixBuilder to a list of image files, which are recorded in the runtime info
func (proc *MatrixBuilder) Connect(input []string) {
	proc.input = input
	proc.info.Sources = input
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *MatrixBuilder) Run() {
	defer close(proc.output)
	params, err := proc.info.Params()
	misc.ErrorCheck(err)
	load := imageio.Loader(proc.info.MaxDim)
	workers := params.Workers
	if workers < 1 {
		workers = 1
	}

	// limit the number of images held in memory at once
	tokens := make(chan struct{}, workers)
	var wg sync.WaitGroup
	wg.Add(len(proc.input))
	for i, imageFile := range proc.input {
		tokens <- struct{}{}
		go func(imageID int, imageFile string) {
			defer func() {
				<-tokens
				wg.Done()
			}()

			// a bad image stops the run, no partial graph is made
			matrix, err := graph.SketchImage(imageFile, params, load)
			misc.ErrorCheck(err)
			proc.output <- &sketchedImage{id: imageID, matrix: matrix}
		}(i, imageFile)
	}
	wg.Wait()
}

// GraphBuilder is a pipeline process that compares the tile matrices and builds the similarity graph
type GraphBuilder struct {
	info  *Info
	input chan *sketchedImage
}

// NewGraphBuilder is the constructor
func NewGraphBuilder(info *Info) *GraphBuilder {
	return &GraphBuilder{info: info}
}

// Connect is the method to connect the GraphBuilder to the output of a MatrixBuilder
func (proc *GraphBuilder) Connect(previous *MatrixBuilder) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *GraphBuilder) Run() {

	// collect the matrices in input order
	matrices := make([]*tiles.Matrix, len(proc.info.Sources))
	received := 0
	for img := range proc.input {
		matrices[img.id] = img.matrix
		received++
	}
	if received != len(matrices) {
		misc.ErrorCheck(fmt.Errorf("only %d of %d images were sketched", received, len(matrices)))
	}
	log.Printf("\tnumber of images sketched: %d", received)

	// compare each pair of images
	edges, err := graph.FromMatrices(matrices, proc.info.Threshold)
	misc.ErrorCheck(err)
	summary := reporting.Summarise(edges, proc.info.NumTiles)
	log.Printf("\tnumber of image pairs compared: %d", summary.Edges)
	log.Printf("\tmatching tiles per pair: min %d, max %d, mean %.2f", summary.Min, summary.Max, summary.Mean)
	log.Printf("\tpairs with every tile matching: %d", summary.Full)

	// add the graph to the runtime info
	proc.info.matrices = matrices
	proc.info.graph = &graph.Graph{
		Sources:    proc.info.Sources,
		NumTiles:   proc.info.NumTiles,
		SketchSize: proc.info.SketchSize,
		HashName:   proc.info.HashName,
		Threshold:  proc.info.Threshold,
		Edges:      edges,
	}
}
