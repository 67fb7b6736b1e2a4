// Package tiles splits a raster image into a square grid of tiles and sketches the lightness values held in each tile.
package tiles

import (
	"errors"
	"fmt"

	"github.com/will-rowe/tilehash/src/minhash"
)

// error messages
var (
	ErrInvalidTiles = errors.New("tiles: number of tiles must be positive")
	ErrEmptyRaster  = errors.New("tiles: raster has zero width or height")
	ErrOutOfRange   = errors.New("tiles: tile index out of range")
	ErrGridMismatch = errors.New("tiles: tile grids are not the same size")
	ErrCorruptDump  = errors.New("tiles: saved matrix is corrupted")
)

// Grid is a square grid of sketches, stored row-major
type Grid struct {
	size  int
	cells []minhash.Sketch
}

// NewGrid is the constructor for a size x size Grid of nil sketches
func NewGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, ErrInvalidTiles
	}
	return &Grid{
		size:  size,
		cells: make([]minhash.Sketch, size*size),
	}, nil
}

// Size returns the number of rows (and columns) in the grid
func (grid *Grid) Size() int {
	return grid.size
}

// At returns the sketch held at row, col
func (grid *Grid) At(row, col int) (minhash.Sketch, error) {
	if !grid.inBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d,%d) in a %dx%d grid", ErrOutOfRange, row, col, grid.size, grid.size)
	}
	return grid.cells[row*grid.size+col], nil
}

// Set stores a sketch at row, col
func (grid *Grid) Set(row, col int, sketch minhash.Sketch) error {
	if !grid.inBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) in a %dx%d grid", ErrOutOfRange, row, col, grid.size, grid.size)
	}
	grid.cells[row*grid.size+col] = sketch
	return nil
}

func (grid *Grid) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < grid.size && col < grid.size
}
