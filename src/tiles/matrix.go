package tiles

import (
	"fmt"
	"image"
	"math"

	"github.com/will-rowe/tilehash/src/minhash"
)

// Raster is the image capability needed to build a Matrix
type Raster interface {
	Width() int
	Height() int
	Lightness(x, y int) float64 // in [0,1]
}

// Matrix holds a bottom-k MinHash sketch for each tile of an image
type Matrix struct {
	numTiles   int
	sketchSize int
	width      int
	height     int
	grid       *Grid
}

// NewMatrix is the constructor, it tiles the raster and sketches the quantised lightness of every tile.
// The raster is only read during construction.
func NewMatrix(raster Raster, numTiles, sketchSize int, h minhash.Hasher) (*Matrix, error) {
	if numTiles < 1 {
		return nil, ErrInvalidTiles
	}
	if sketchSize < 1 {
		return nil, minhash.ErrInvalidSketchSize
	}
	if raster.Width() < 1 || raster.Height() < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyRaster, raster.Width(), raster.Height())
	}
	grid, err := NewGrid(numTiles)
	if err != nil {
		return nil, err
	}
	m := &Matrix{
		numTiles:   numTiles,
		sketchSize: sketchSize,
		width:      raster.Width(),
		height:     raster.Height(),
		grid:       grid,
	}
	for row := 0; row < numTiles; row++ {
		for col := 0; col < numTiles; col++ {
			sketch, err := minhash.KMinHash(m.tileValues(raster, row, col), sketchSize, h)
			if err != nil {
				return nil, err
			}
			if err := grid.Set(row, col, sketch); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// tileValues collects the quantised lightness of every pixel in a tile
func (m *Matrix) tileValues(raster Raster, row, col int) []int32 {
	bounds := m.bounds(row, col)
	if bounds.Empty() {
		return nil
	}
	vals := make([]int32, 0, bounds.Dx()*bounds.Dy())
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			vals = append(vals, Quantise(raster.Lightness(x, y)))
		}
	}
	return vals
}

// bounds returns the pixels covered by a tile, rows of the grid step along x and columns along y
func (m *Matrix) bounds(row, col int) image.Rectangle {
	tileWidth := ceilDiv(m.width, m.numTiles)
	tileHeight := ceilDiv(m.height, m.numTiles)
	return image.Rect(
		minInt(row*tileWidth, m.width),
		minInt(col*tileHeight, m.height),
		minInt((row+1)*tileWidth, m.width),
		minInt((col+1)*tileHeight, m.height),
	)
}

// TileBounds returns the pixel rectangle covered by a tile, tiles past the edge of the image are empty
func (m *Matrix) TileBounds(row, col int) (image.Rectangle, error) {
	if !m.grid.inBounds(row, col) {
		return image.Rectangle{}, fmt.Errorf("%w: (%d,%d) in a %dx%d grid", ErrOutOfRange, row, col, m.numTiles, m.numTiles)
	}
	return m.bounds(row, col), nil
}

// MinHash returns the sketch for a tile
func (m *Matrix) MinHash(row, col int) (minhash.Sketch, error) {
	return m.grid.At(row, col)
}

// NumTiles returns the number of tiles along each side of the grid
func (m *Matrix) NumTiles() int {
	return m.numTiles
}

// SketchSize returns the size of each tile sketch
func (m *Matrix) SketchSize() int {
	return m.sketchSize
}

// CountMatchTiles compares each tile with the tile in the same position of another matrix
// and returns how many have an estimated Jaccard similarity >= threshold
func (m *Matrix) CountMatchTiles(other *Matrix, threshold float64) (int, error) {
	if other == nil || m.numTiles != other.numTiles {
		return 0, ErrGridMismatch
	}
	matches := 0
	for i, sketch := range m.grid.cells {
		if minhash.Jaccard(sketch, other.grid.cells[i]) >= threshold {
			matches++
		}
	}
	return matches, nil
}

// Quantise converts a lightness value to an integer in [0,255]
func Quantise(lightness float64) int32 {
	v := int32(math.Floor(lightness * 255))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
