package tiles

import (
	"fmt"
	"io/ioutil"

	"github.com/will-rowe/tilehash/src/minhash"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// matrixRecord is the serialised form of a Matrix
type matrixRecord struct {
	NumTiles   int              `msgpack:"numTiles"`
	SketchSize int              `msgpack:"sketchSize"`
	Width      int              `msgpack:"width"`
	Height     int              `msgpack:"height"`
	Tiles      []minhash.Sketch `msgpack:"tiles"`
}

// Dump writes a set of matrices to disk
func Dump(path string, matrices []*Matrix) error {
	records := make([]matrixRecord, len(matrices))
	for i, m := range matrices {
		records[i] = matrixRecord{
			NumTiles:   m.numTiles,
			SketchSize: m.sketchSize,
			Width:      m.width,
			Height:     m.height,
			Tiles:      m.grid.cells,
		}
	}
	b, err := msgpack.Marshal(records)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0644)
}

// Load reads a set of matrices from disk
func Load(path string) ([]*Matrix, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []matrixRecord
	if err := msgpack.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	matrices := make([]*Matrix, len(records))
	for i, record := range records {
		if record.NumTiles < 1 || len(record.Tiles) != record.NumTiles*record.NumTiles {
			return nil, fmt.Errorf("%w: matrix %d in %v has %d tiles for a %dx%d grid", ErrCorruptDump, i, path, len(record.Tiles), record.NumTiles, record.NumTiles)
		}
		for j, sketch := range record.Tiles {
			if len(sketch) != record.SketchSize {
				return nil, fmt.Errorf("%w: tile %d of matrix %d in %v has %d slots, expected %d", ErrCorruptDump, j, i, path, len(sketch), record.SketchSize)
			}
		}
		matrices[i] = &Matrix{
			numTiles:   record.NumTiles,
			sketchSize: record.SketchSize,
			width:      record.Width,
			height:     record.Height,
			grid:       &Grid{size: record.NumTiles, cells: record.Tiles},
		}
	}
	return matrices, nil
}
