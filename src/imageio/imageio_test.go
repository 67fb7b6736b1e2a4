package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archiver"
)

// writePNG is a helper function to save a greyscale gradient image
func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x * 255) / width)})
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	if err := png.Encode(fh, img); err != nil {
		t.Fatal(err)
	}
}

func TestLightness(t *testing.T) {
	if l := lightness(0xffff, 0xffff, 0xffff); l != 1.0 {
		t.Fatalf("white should have lightness 1.0, not %.3f", l)
	}
	if l := lightness(0, 0, 0); l != 0.0 {
		t.Fatalf("black should have lightness 0.0, not %.3f", l)
	}
	if l := lightness(0xffff, 0, 0); l != 0.5 {
		t.Fatalf("pure red should have lightness 0.5, not %.3f", l)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.RGBA{255, 255, 255, 255})
	img.Set(12, 11, color.RGBA{0, 0, 255, 255})
	raster, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if raster.Width() != 3 || raster.Height() != 2 {
		t.Fatalf("raster is %dx%d, expected 3x2", raster.Width(), raster.Height())
	}
	if raster.Lightness(0, 0) != 1.0 || raster.Lightness(2, 1) != 0.5 || raster.Lightness(1, 0) != 0.0 {
		t.Fatal("raster does not use the image origin")
	}
	if _, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad for an empty image, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradient.png")
	writePNG(t, path, 40, 20)
	raster, err := Load(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if raster.Width() != 40 || raster.Height() != 20 {
		t.Fatalf("raster is %dx%d, expected 40x20", raster.Width(), raster.Height())
	}
	if math.Abs(raster.Lightness(20, 5)-float64((20*255)/40)/255) > 1e-9 {
		t.Fatalf("unexpected lightness %.4f", raster.Lightness(20, 5))
	}

	// scale down, keeping the aspect ratio
	small, err := Load(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if small.Width() != 10 || small.Height() != 5 {
		t.Fatalf("downscaled raster is %dx%d, expected 10x5", small.Width(), small.Height())
	}

	// bad input
	if _, err := Load(filepath.Join(dir, "missing.png"), 0); !errors.Is(err, ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad for a missing file, got %v", err)
	}
	notImage := filepath.Join(dir, "notes.png")
	if err := ioutil.WriteFile(notImage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(notImage, 0); !errors.Is(err, ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad for an undecodable file, got %v", err)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "a.PNG"), 4, 4)
	writePNG(t, filepath.Join(dir, ".hidden.png"), 4, 4)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0700); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "sub", "c.png"), 4, 4)
	if err := ioutil.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "empty.png"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	images, err := Collect(dir)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.png"), filepath.Join(dir, "sub", "c.png")}
	if len(images) != len(expected) {
		t.Fatalf("collected %v, expected %v", images, expected)
	}
	for i := range expected {
		if images[i] != expected[i] {
			t.Fatalf("collected %v, expected %v", images, expected)
		}
	}
	if _, err := Collect(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("should fault as the directory doesn't exist")
	}
}

func TestUnpack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.png")
	writePNG(t, src, 4, 4)
	archive := filepath.Join(dir, "corpus.zip")
	if err := archiver.Archive([]string{src}, archive); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "unpacked")
	if err := Unpack(archive, dest); err != nil {
		t.Fatal(err)
	}
	images, err := Collect(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 {
		t.Fatalf("expected one image in the unpacked archive, got %v", images)
	}
	if err := Unpack(filepath.Join(dir, "missing.zip"), dest); err == nil {
		t.Fatal("should fault as the archive doesn't exist")
	}
}
