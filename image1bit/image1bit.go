package image1bit

import (
	"fmt"
	"image"
	"image/color"
)

// Bit is a monochrome color: true is a lit pixel, false a clear one.
type Bit bool

const (
	On  = Bit(true)
	Off = Bit(false)
)

// RGBA returns white for a lit pixel and black for a clear one.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (c Bit) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit. Colors at or above half intensity
// are lit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Bitmap is a width x height matrix of pixels stored as a flat slice.
// The pixel at (x, y) is Pix[y*Width+x].
type Bitmap struct {
	Pix    []bool
	Width  int
	Height int
}

// NewBitmap returns a cleared bitmap of the given size.
func NewBitmap(width, height int) (*Bitmap, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	return &Bitmap{
		Pix:    make([]bool, width*height),
		Width:  width,
		Height: height,
	}, nil
}

// idx returns the index in Pix of the pixel at (x, y).
func (m *Bitmap) idx(x, y int) int {
	return y*m.Width + x
}

func (m *Bitmap) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// BitAt reports whether the pixel at (x, y) is lit. Out of bounds pixels are
// clear.
func (m *Bitmap) BitAt(x, y int) bool {
	if !m.in(x, y) {
		return false
	}
	return m.Pix[m.idx(x, y)]
}

// SetBit sets the pixel at (x, y). Out of bounds writes are ignored.
func (m *Bitmap) SetBit(x, y int, v bool) {
	if !m.in(x, y) {
		return
	}
	m.Pix[m.idx(x, y)] = v
}

// ColorModel returns BitModel.
func (m *Bitmap) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds, always anchored at (0, 0).
func (m *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image.
func (m *Bitmap) At(x, y int) color.Color {
	return Bit(m.BitAt(x, y))
}

// Set implements draw.Image.
func (m *Bitmap) Set(x, y int, c color.Color) {
	m.SetBit(x, y, bool(BitModel.Convert(c).(Bit)))
}

// Fill sets every pixel to v.
func (m *Bitmap) Fill(v bool) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// Invert flips every pixel.
func (m *Bitmap) Invert() {
	for i := range m.Pix {
		m.Pix[i] = !m.Pix[i]
	}
}

// Clone returns a deep copy of m.
func (m *Bitmap) Clone() *Bitmap {
	pix := make([]bool, len(m.Pix))
	copy(pix, m.Pix)
	return &Bitmap{Pix: pix, Width: m.Width, Height: m.Height}
}

// Equal reports whether m and o have the same size and pixels.
func (m *Bitmap) Equal(o *Bitmap) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Width != o.Width || m.Height != o.Height || len(m.Pix) != len(o.Pix) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of the bitmap.
func (m *Bitmap) String() string {
	return fmt.Sprintf("image1bit.Bitmap{%dx%d}", m.Width, m.Height)
}
