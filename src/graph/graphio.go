package graph

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/will-rowe/tilehash/src/tiles"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// ErrSketchMismatch is returned when saved sketches weren't made with the graph's settings
var ErrSketchMismatch = errors.New("graph: sketches don't match the graph")

// Graph is a similarity graph along with the sources and settings used to build it
type Graph struct {
	Sources    []string `msgpack:"sources"`
	NumTiles   int      `msgpack:"numTiles"`
	SketchSize int      `msgpack:"sketchSize"`
	HashName   string   `msgpack:"hash"`
	Threshold  float64  `msgpack:"threshold"`
	Edges      []Edge   `msgpack:"edges"`
}

// Dump is a method to write the graph to disk
func (g *Graph) Dump(path string) error {
	b, err := msgpack.Marshal(g)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0644)
}

// Load reads a graph from disk
func Load(path string) (*Graph, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("graph file appears empty: %v", path)
	}
	g := &Graph{}
	if err := msgpack.Unmarshal(b, g); err != nil {
		return nil, err
	}
	for _, edge := range g.Edges {
		if edge.A < 0 || edge.B >= len(g.Sources) || edge.A >= edge.B {
			return nil, fmt.Errorf("graph file contains a bad edge (%d,%d) for %d sources", edge.A, edge.B, len(g.Sources))
		}
	}
	return g, nil
}

// Rescore is a method to rebuild the edges from the saved tile matrices of the graph's sources using a new threshold.
// The matrices must be in source order and made with the graph's tile and sketch sizes.
func (g *Graph) Rescore(matrices []*tiles.Matrix, threshold float64) error {
	if len(matrices) != len(g.Sources) {
		return fmt.Errorf("%w: %d matrices for %d sources", ErrSketchMismatch, len(matrices), len(g.Sources))
	}
	for i, m := range matrices {
		if m.NumTiles() != g.NumTiles || m.SketchSize() != g.SketchSize {
			return fmt.Errorf("%w: image %d has %dx%d tiles with sketch size %d, the graph uses %dx%d tiles with sketch size %d", ErrSketchMismatch, i, m.NumTiles(), m.NumTiles(), m.SketchSize(), g.NumTiles, g.NumTiles, g.SketchSize)
		}
	}
	edges, err := FromMatrices(matrices, threshold)
	if err != nil {
		return err
	}
	g.Edges = edges
	g.Threshold = threshold
	return nil
}

// WriteTSV is a method to write the edges as tab separated values
func (g *Graph) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "a\tb\tsource_a\tsource_b\tmatching_tiles"); err != nil {
		return err
	}
	for _, edge := range g.Edges {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%d\n", edge.A, edge.B, g.Sources[edge.A], g.Sources[edge.B], edge.Weight); err != nil {
			return err
		}
	}
	return nil
}
