// Package reporting summarises and plots the edge weights of a similarity graph
package reporting

import (
	"errors"
	"fmt"

	"github.com/will-rowe/tilehash/src/graph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// maxBins caps the number of histogram bins for large tile grids
const maxBins = 50

// ErrNoEdges is returned when there is nothing to plot
var ErrNoEdges = errors.New("reporting: graph has no edges")

// Summary describes the matching tile counts of a graph
type Summary struct {
	Edges int
	Min   int
	Max   int
	Mean  float64
	Full  int // number of pairs where every tile matched
}

// Summarise returns the summary statistics for a set of edges built with a numTiles x numTiles grid
func Summarise(edges []graph.Edge, numTiles int) Summary {
	summary := Summary{Edges: len(edges)}
	if len(edges) == 0 {
		return summary
	}
	summary.Min = edges[0].Weight
	total := 0
	for _, edge := range edges {
		if edge.Weight < summary.Min {
			summary.Min = edge.Weight
		}
		if edge.Weight > summary.Max {
			summary.Max = edge.Weight
		}
		if edge.Weight == numTiles*numTiles {
			summary.Full++
		}
		total += edge.Weight
	}
	summary.Mean = float64(total) / float64(len(edges))
	return summary
}

// PlotWeights saves a histogram of the matching tile counts to a png/svg/pdf file (format taken from the extension)
func PlotWeights(edges []graph.Edge, numTiles int, fileName string) error {
	if len(edges) == 0 {
		return ErrNoEdges
	}
	weights := make(plotter.Values, len(edges))
	for i, edge := range edges {
		weights[i] = float64(edge.Weight)
	}
	bins := numTiles*numTiles + 1
	if bins > maxBins {
		bins = maxBins
	}
	weightPlot, err := plot.New()
	if err != nil {
		return err
	}
	weightPlot.Title.Text = fmt.Sprintf("matching tiles per image pair (%dx%d grid)", numTiles, numTiles)
	weightPlot.X.Label.Text = "matching tiles"
	weightPlot.Y.Label.Text = "image pairs"
	hist, err := plotter.NewHist(weights, bins)
	if err != nil {
		return err
	}
	weightPlot.Add(hist)
	return weightPlot.Save(8*vg.Inch, 6*vg.Inch, fileName)
}
