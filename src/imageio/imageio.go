// Package imageio loads image files as lightness rasters that can be tiled and sketched.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// register the decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mholt/archiver"
	"github.com/nfnt/resize"
	"github.com/will-rowe/tilehash/src/misc"
	"github.com/will-rowe/tilehash/src/tiles"
)

// ErrImageLoad is returned when an image can't be read or decoded
var ErrImageLoad = errors.New("imageio: could not load image")

// Extensions are the image file extensions that Collect will keep
var Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// Raster holds the HSL lightness of every pixel of an image
type Raster struct {
	width     int
	height    int
	lightness []float64
}

var _ tiles.Raster = (*Raster)(nil)

// Width returns the image width in pixels
func (raster *Raster) Width() int { return raster.width }

// Height returns the image height in pixels
func (raster *Raster) Height() int { return raster.height }

// Lightness returns the lightness of pixel x,y in [0,1]
func (raster *Raster) Lightness(x, y int) float64 {
	return raster.lightness[y*raster.width+x]
}

// FromImage converts a decoded image to a Raster
func FromImage(img image.Image) (*Raster, error) {
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("%w: image has no pixels (%dx%d)", ErrImageLoad, bounds.Dx(), bounds.Dy())
	}
	raster := &Raster{
		width:     bounds.Dx(),
		height:    bounds.Dy(),
		lightness: make([]float64, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < raster.height; y++ {
		for x := 0; x < raster.width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			raster.lightness[y*raster.width+x] = lightness(r, g, b)
		}
	}
	return raster, nil
}

// lightness is the HSL lightness of a 16 bit colour: the mean of the largest and smallest channels
func lightness(r, g, b uint32) float64 {
	hi, lo := r, r
	for _, c := range []uint32{g, b} {
		if c > hi {
			hi = c
		}
		if c < lo {
			lo = c
		}
	}
	return float64(hi+lo) / (2 * 0xffff)
}

// Load decodes an image file into a Raster.
// If maxDim is positive, images with a side longer than maxDim are scaled down (keeping the aspect ratio) before conversion.
func Load(path string, maxDim int) (*Raster, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer fh.Close()
	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrImageLoad, path, err)
	}
	if maxDim > 0 {
		img = downscale(img, maxDim)
	}
	return FromImage(img)
}

// downscale shrinks an image so that its longest side is maxDim
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return img
	}
	if bounds.Dx() >= bounds.Dy() {
		return resize.Resize(uint(maxDim), 0, img, resize.Bilinear)
	}
	return resize.Resize(0, uint(maxDim), img, resize.Bilinear)
}

// Collect returns the image files found under a directory, sorted by path.
// Dot files and empty files are ignored.
func Collect(dir string) ([]string, error) {
	if err := misc.CheckDir(dir); err != nil {
		return nil, err
	}
	var images []string
	err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			if path != dir && strings.HasPrefix(f.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(f.Name(), ".") || f.Size() == 0 {
			return nil
		}
		if misc.CheckExt(strings.ToLower(path), Extensions) == nil {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(images)
	return images, nil
}

// Unpack extracts an archive of images (zip, tar, tar.gz etc.) into a directory
func Unpack(archive, dest string) error {
	if err := misc.CheckFile(archive); err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0700); err != nil {
		return err
	}
	if err := archiver.Unarchive(archive, dest); err != nil {
		return fmt.Errorf("could not unpack %v: %v", archive, err)
	}
	return nil
}

// Loader returns a function that loads image files with the given maxDim, for use with graph.Build
func Loader(maxDim int) func(path string) (tiles.Raster, error) {
	return func(path string) (tiles.Raster, error) {
		raster, err := Load(path, maxDim)
		if err != nil {
			return nil, err
		}
		return raster, nil
	}
}
