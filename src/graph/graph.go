// Package graph builds a weighted similarity graph over a set of images, the weight of each edge is the number of tiles the two images have in common
package graph

import (
	"errors"
	"fmt"

	"github.com/will-rowe/tilehash/src/minhash"
	"github.com/will-rowe/tilehash/src/tiles"
	"golang.org/x/sync/errgroup"
)

// error messages
var (
	ErrInvalidThreshold = errors.New("graph: similarity threshold must be in the range [0,1]")
	ErrNoHasher         = errors.New("graph: no hash function supplied")
)

// Edge links two images (by their index in the input) and records the number of matching tiles
type Edge struct {
	A      int `msgpack:"a"`
	B      int `msgpack:"b"`
	Weight int `msgpack:"w"`
}

// Loader reads an image source into a raster
type Loader func(source string) (tiles.Raster, error)

// Params are the settings used to sketch and compare images
type Params struct {
	NumTiles   int
	SketchSize int
	Threshold  float64
	Hasher     minhash.Hasher
	Workers    int // number of images to sketch at once
}

// check validates the parameters that aren't checked by the tile matrix
func (p Params) check() error {
	if p.Hasher == nil {
		return ErrNoHasher
	}
	return checkThreshold(p.Threshold)
}

func checkThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Build sketches every source and then compares every pair of images.
// Matrices are kept in input order so edge indices match the sources. If any source can't be loaded or sketched, no graph is returned.
func Build(sources []string, p Params, load Loader) ([]Edge, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	matrices := make([]*tiles.Matrix, len(sources))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			m, err := SketchImage(source, p, load)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			matrices[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return FromMatrices(matrices, p.Threshold)
}

// SketchImage loads a single source and builds its tile matrix
func SketchImage(source string, p Params, load Loader) (*tiles.Matrix, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	raster, err := load(source)
	if err != nil {
		return nil, fmt.Errorf("could not load image (%v): %w", source, err)
	}
	m, err := tiles.NewMatrix(raster, p.NumTiles, p.SketchSize, p.Hasher)
	if err != nil {
		return nil, fmt.Errorf("could not sketch image (%v): %w", source, err)
	}
	return m, nil
}

// FromMatrices compares every unordered pair of matrices and returns one edge per pair, ordered by (A, B)
func FromMatrices(matrices []*tiles.Matrix, threshold float64) ([]Edge, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(matrices)*(len(matrices)-1)/2)
	for i := 0; i < len(matrices); i++ {
		for j := i + 1; j < len(matrices); j++ {
			matches, err := matrices[i].CountMatchTiles(matrices[j], threshold)
			if err != nil {
				return nil, fmt.Errorf("could not compare images %d and %d: %w", i, j, err)
			}
			edges = append(edges, Edge{A: i, B: j, Weight: matches})
		}
	}
	return edges, nil
}
