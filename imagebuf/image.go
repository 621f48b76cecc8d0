package imagebuf

import "fmt"

// Image is a row-major, 8-bit-per-pixel grayscale buffer.
//
// Pix has length Width*Height; the pixel at (x, y) lives at
// Pix[y*Width+x]. Image is the boundary type for the processing harness:
// inputs are supplied as Images and outputs are returned as Images.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zero-filled image of the given dimensions.
//
// Panics if width or height is negative; a zero dimension produces an empty
// but valid image.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("imagebuf: negative dimension %dx%d", width, height))
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// FromRows builds an Image from a slice of equal-length rows, for tests and
// example pipelines that find literal 2-D grids easier to read than a flat
// buffer.
func FromRows(rows [][]byte) *Image {
	if len(rows) == 0 {
		return New(0, 0)
	}
	height := len(rows)
	width := len(rows[0])
	img := New(width, height)
	for y, row := range rows {
		if len(row) != width {
			panic(fmt.Sprintf("imagebuf: ragged row %d: want %d got %d", y, width, len(row)))
		}
		copy(img.Pix[y*width:(y+1)*width], row)
	}
	return img
}

// At returns the pixel value at (x, y). Out-of-bounds coordinates return 0,
// matching the pipeline's own out-of-bounds-read convention.
func (img *Image) At(x, y int) byte {
	if img == nil || x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0
	}
	return img.Pix[y*img.Width+x]
}

// Set writes the pixel value at (x, y). Out-of-bounds coordinates are
// silently ignored.
func (img *Image) Set(x, y int, v byte) {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return
	}
	img.Pix[y*img.Width+x] = v
}

// Rows returns the image as a slice of row slices, each a view into Pix.
// Mutating a returned row mutates the image.
func (img *Image) Rows() [][]byte {
	rows := make([][]byte, img.Height)
	for y := 0; y < img.Height; y++ {
		rows[y] = img.Pix[y*img.Width : (y+1)*img.Width]
	}
	return rows
}

// SameDimensions reports whether img and other have equal width and height.
func (img *Image) SameDimensions(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	return img.Width == other.Width && img.Height == other.Height
}

// Clear zeroes every pixel in place.
func (img *Image) Clear() {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
