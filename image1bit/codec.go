package image1bit

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimensions is returned when width or height is not positive,
	// or when width*height does not fit in an int.
	ErrInvalidDimensions = errors.New("image1bit: invalid dimensions")
	// ErrBufferTooShort is returned by Load when the input holds fewer bytes
	// than DataLength requires.
	ErrBufferTooShort = errors.New("image1bit: buffer too short")
	// ErrDimensionMismatch is returned by Save when the bitmap size differs
	// from the requested width and height.
	ErrDimensionMismatch = errors.New("image1bit: dimension mismatch")
	// ErrInvalidHeaderLength is returned by Save for a negative header length
	// or one that would overflow the output size.
	ErrInvalidHeaderLength = errors.New("image1bit: invalid header length")
)

// Stride returns the number of bytes used by one row of width pixels.
func Stride(width int) int {
	return width/8 + (width%8+7)/8
}

// DataLength returns the size in bytes of the packed pixel data, excluding any
// header. It returns 0 for dimensions rejected by CheckDimensions.
func DataLength(width, height int) int {
	if CheckDimensions(width, height) != nil {
		return 0
	}
	return Stride(width) * height
}

// CheckDimensions reports ErrInvalidDimensions unless width and height are
// positive and width*height pixels can be addressed. Stride(width)*height is
// then addressable too.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// Load decodes packed pixel data into a new Bitmap.
//
// data must start with the pixel data region; any header has to be stripped by
// the caller. Bytes past DataLength(width, height) are ignored.
func Load(data []byte, width, height int) (*Bitmap, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	if n := DataLength(width, height); len(data) < n {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferTooShort, len(data), n)
	}

	m := &Bitmap{
		Pix:    make([]bool, width*height),
		Width:  width,
		Height: height,
	}
	stride := Stride(width)
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			m.Pix[m.idx(x, y)] = row[x/8]&(1<<(7-x%8)) != 0
		}
	}
	return m, nil
}

// Save encodes m into a new buffer of headerLength + DataLength(width, height)
// bytes. The first headerLength bytes are left zero for the caller to fill.
func Save(m *Bitmap, width, height, headerLength int) ([]byte, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	if headerLength < 0 || headerLength > math.MaxInt-DataLength(width, height) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHeaderLength, headerLength)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil bitmap", ErrDimensionMismatch)
	}
	if m.Width != width || m.Height != height || len(m.Pix) != width*height {
		return nil, fmt.Errorf("%w: bitmap is %dx%d, want %dx%d",
			ErrDimensionMismatch, m.Width, m.Height, width, height)
	}

	stride := Stride(width)
	out := make([]byte, headerLength+stride*height)
	pix := out[headerLength:]
	for y := 0; y < height; y++ {
		row := pix[y*stride : (y+1)*stride]
		// Each row starts a fresh byte, so a partial group at the end of
		// the row keeps its low bits zero.
		var b byte
		for x := 0; x < width; x++ {
			if m.Pix[m.idx(x, y)] {
				b |= 1 << (7 - x%8)
			}
			if x%8 == 7 || x == width-1 {
				row[x/8] = b
				b = 0
			}
		}
	}
	return out, nil
}

// Codec exposes the package functions as a value, for use where a block
// format is selected at runtime.
type Codec struct{}

// DataLength calls the package DataLength.
func (Codec) DataLength(width, height int) int {
	return DataLength(width, height)
}

// Load calls the package Load.
func (Codec) Load(data []byte, width, height int) (*Bitmap, error) {
	return Load(data, width, height)
}

// Save calls the package Save.
func (Codec) Save(m *Bitmap, width, height, headerLength int) ([]byte, error) {
	return Save(m, width, height, headerLength)
}
