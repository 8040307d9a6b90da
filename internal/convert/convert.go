// Package convert moves bitmaps in and out of ordinary image files.
package convert

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/flavioheleno/ssd1327/image1bit"
	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// palette maps bitmap values to colors: index 0 clear, index 1 lit.
var palette = color.Palette{color.Black, color.White}

// FromImage scales img to width x height and reduces it to a bitmap. With
// dithering enabled, Floyd-Steinberg error diffusion is used; otherwise each
// pixel is thresholded by image1bit.BitModel.
func FromImage(img image.Image, width, height int, dithering bool) (*image1bit.Bitmap, error) {
	m, err := image1bit.NewBitmap(width, height)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("convert: empty source image")
	}

	src := img
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		scaled := image.NewRGBA(m.Bounds())
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		src = scaled
	}

	if !dithering {
		b := src.Bounds()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				m.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
		return m, nil
	}

	d := dither.NewDitherer(palette)
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true
	p := d.DitherPaletted(src)
	b := p.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetBit(x, y, p.ColorIndexAt(b.Min.X+x, b.Min.Y+y) == 1)
		}
	}
	return m, nil
}

// ToImage returns a black and white paletted copy of m.
func ToImage(m *image1bit.Bitmap) *image.Paletted {
	p := image.NewPaletted(m.Bounds(), palette)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.BitAt(x, y) {
				p.SetColorIndex(x, y, 1)
			}
		}
	}
	return p
}

// Decode reads a PNG or BMP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return img, nil
}

// Encode writes m to w in the format named by the extension of name, either
// .png or .bmp.
func Encode(w io.Writer, name string, m *image1bit.Bitmap) error {
	img := ToImage(m)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("convert: unsupported image format %q", ext)
	}
}

// ASCII renders m as text, one line per row.
func ASCII(m *image1bit.Bitmap, on, off rune) string {
	var sb strings.Builder
	sb.Grow((m.Width + 1) * m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.BitAt(x, y) {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
