package pipeline

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/will-rowe/tilehash/src/graph"
	"github.com/will-rowe/tilehash/src/minhash"
	"github.com/will-rowe/tilehash/src/tiles"
)

// Info stores the runtime information
type Info struct {
	Version    string
	NumProc    int
	Profiling  bool
	NumTiles   int
	SketchSize int
	HashName   string
	HashSeed   uint64
	Threshold  float64
	MaxDim     int
	OutDir     string
	Sources    []string

	// the following fields are not written to disk
	hasher   minhash.Hasher
	matrices []*tiles.Matrix
	graph    *graph.Graph
}

// Hasher is a method to get the hash function named in the runtime info
func (info *Info) Hasher() (minhash.Hasher, error) {
	if info.hasher == nil {
		h, err := minhash.NewHasher(info.HashName, info.HashSeed)
		if err != nil {
			return nil, err
		}
		info.hasher = h
	}
	return info.hasher, nil
}

// Params is a method to convert the runtime info to graph parameters
func (info *Info) Params() (graph.Params, error) {
	h, err := info.Hasher()
	if err != nil {
		return graph.Params{}, err
	}
	return graph.Params{
		NumTiles:   info.NumTiles,
		SketchSize: info.SketchSize,
		Threshold:  info.Threshold,
		Hasher:     h,
		Workers:    info.NumProc,
	}, nil
}

// Graph returns the similarity graph, once the pipeline has run
func (info *Info) Graph() *graph.Graph {
	return info.graph
}

// Matrices returns the tile matrices (in source order), once the pipeline has run
func (info *Info) Matrices() []*tiles.Matrix {
	return info.matrices
}

// Dump is a method to dump the pipeline info to file
func (info *Info) Dump(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	encoder := gob.NewEncoder(fh)
	return encoder.Encode(info)
}

// Load is a method to load Info from file
func (info *Info) Load(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return info.LoadFromBytes(data)
}

// LoadFromBytes is a method to load Info from bytes
func (info *Info) LoadFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("tilehash runtime info appears empty")
	}
	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	return decoder.Decode(info)
}
