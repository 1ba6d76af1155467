package sandsim

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Palette maps cell states to colors.
type Palette struct {
	Sand  color.RGBA
	Empty color.RGBA
}

// DefaultPalette draws yellow sand on a black background.
var DefaultPalette = Palette{
	Sand:  color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	Empty: color.RGBA{A: 0xFF},
}

// Frame is an RGBA image of one grid layer, one pixel per cell.
type Frame struct {
	img     *image.RGBA
	palette Palette
}

// NewFrame creates a frame for a width x height grid.
func NewFrame(width, height int, p Palette) *Frame {
	return &Frame{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		palette: p,
	}
}

// Width returns the width of the frame in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height returns the height of the frame in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// Pix returns the RGBA pixel data, 4 bytes per pixel.
func (f *Frame) Pix() []uint8 { return f.img.Pix }

// Image returns the frame as an image.RGBA sharing its pixels.
func (f *Frame) Image() *image.RGBA { return f.img }

// Draw redraws every row of layer and clears its dirty rows.
func (f *Frame) Draw(g *Grid, layer int) {
	for y := 0; y < min(f.Height(), g.Height()); y++ {
		f.drawRow(g, layer, y)
	}
	g.ClearDirty(layer)
}

// DrawDirty redraws only the dirty rows of layer, clears them and returns
// how many rows were drawn.
func (f *Frame) DrawDirty(g *Grid, layer int) int {
	rows := g.TakeDirtyRows(layer)
	n := 0
	for _, y := range rows {
		if y < f.Height() {
			f.drawRow(g, layer, y)
			n++
		}
	}
	return n
}

func (f *Frame) drawRow(g *Grid, layer, y int) {
	row := g.Row(layer, y)
	pix := f.img.Pix[y*f.img.Stride:]
	sand, empty := f.palette.Sand, f.palette.Empty
	for x := 0; x < min(f.Width(), g.Width()); x++ {
		c := empty
		if row != nil && row[x] == byte(Sand) {
			c = sand
		}
		i := x * 4
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Scaled returns a copy of the frame enlarged pixelSize times with
// nearest-neighbour sampling. pixelSize <= 1 returns a plain copy.
func (f *Frame) Scaled(pixelSize int) *image.RGBA {
	pixelSize = max(pixelSize, 1)
	dst := image.NewRGBA(image.Rect(0, 0, f.Width()*pixelSize, f.Height()*pixelSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), f.img, f.img.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG saves the frame, scaled by pixelSize, to a PNG file.
func (f *Frame) SavePNG(path string, pixelSize int) error {
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("sandsim: create file: %w", err)
	}
	return f.writePNG(file, pixelSize)
}

// EncodePNG writes the frame, scaled by pixelSize, as PNG to w.
func (f *Frame) EncodePNG(w io.Writer, pixelSize int) error {
	if err := png.Encode(w, f.Scaled(pixelSize)); err != nil {
		return fmt.Errorf("sandsim: encode PNG: %w", err)
	}
	return nil
}

// writePNG encodes into w and closes it. The close error is returned when
// encoding succeeded.
func (f *Frame) writePNG(w io.WriteCloser, pixelSize int) error {
	if err := f.EncodePNG(w, pixelSize); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
