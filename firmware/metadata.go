package firmware

import (
	"errors"
	"fmt"
	"math"

	"github.com/flavioheleno/ssd1327/image1bit"
)

// ErrInvalidDataOffset is returned for a negative data offset, or one whose
// pixel data would start past the largest addressable index.
var ErrInvalidDataOffset = errors.New("firmware: invalid data offset")

// ImageMetadata describes one image block inside a firmware blob.
type ImageMetadata struct {
	BlockType BlockType
	Width     int
	Height    int
	// HeaderLength is the size of the block header preceding the pixel data.
	HeaderLength int
	// DataOffset is the offset of the block header within the blob.
	DataOffset int
}

// Validate checks the metadata against the codec for its block type.
func (m *ImageMetadata) Validate() error {
	c, err := Lookup(m.BlockType)
	if err != nil {
		return err
	}
	if err := image1bit.CheckDimensions(m.Width, m.Height); err != nil {
		return err
	}
	if m.HeaderLength < 0 || m.HeaderLength > math.MaxInt-c.DataLength(m.Width, m.Height) {
		return fmt.Errorf("%w: %d", image1bit.ErrInvalidHeaderLength, m.HeaderLength)
	}
	if m.DataOffset < 0 || m.DataOffset > math.MaxInt-m.HeaderLength {
		return fmt.Errorf("%w: %d", ErrInvalidDataOffset, m.DataOffset)
	}
	return nil
}

// DataLength returns the size of the pixel data, excluding the header.
func (m *ImageMetadata) DataLength() (int, error) {
	c, err := Lookup(m.BlockType)
	if err != nil {
		return 0, err
	}
	return c.DataLength(m.Width, m.Height), nil
}

// CreateImageDataWithHeader returns a zeroed buffer large enough for the
// header and the pixel data.
func (m *ImageMetadata) CreateImageDataWithHeader() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n, err := m.DataLength()
	if err != nil {
		return nil, err
	}
	return make([]byte, m.HeaderLength+n), nil
}

// Load decodes the block described by m from a whole firmware blob.
func (m *ImageMetadata) Load(blob []byte) (*image1bit.Bitmap, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	c, err := Lookup(m.BlockType)
	if err != nil {
		return nil, err
	}
	start := m.DataOffset + m.HeaderLength
	if start > len(blob) {
		return nil, fmt.Errorf("%w: block starts at %d, blob is %d bytes",
			image1bit.ErrBufferTooShort, start, len(blob))
	}
	bm, err := c.Load(blob[start:], m.Width, m.Height)
	if err != nil {
		return nil, fmt.Errorf("firmware: loading %v at offset %d: %w", m.BlockType, m.DataOffset, err)
	}
	return bm, nil
}

// Save encodes bm into a new header+data buffer for this block. The header
// region is zero.
func (m *ImageMetadata) Save(bm *image1bit.Bitmap) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	c, err := Lookup(m.BlockType)
	if err != nil {
		return nil, err
	}
	out, err := c.Save(bm, m.Width, m.Height, m.HeaderLength)
	if err != nil {
		return nil, fmt.Errorf("firmware: saving %v: %w", m.BlockType, err)
	}
	return out, nil
}

func (m *ImageMetadata) String() string {
	return fmt.Sprintf("firmware.ImageMetadata{%v %dx%d @%d+%d}",
		m.BlockType, m.Width, m.Height, m.DataOffset, m.HeaderLength)
}
