// Package firmware dispatches firmware image blocks to the codec for their
// pixel format.
//
// A firmware image stores each picture as a block: a header of HeaderLength
// bytes written by the container, followed by DataLength bytes of pixel data
// in the block's format. This package does not interpret header content.
package firmware

import (
	"errors"
	"fmt"
	"sync"

	"github.com/flavioheleno/ssd1327/image1bit"
)

// BlockType is the pixel format tag of an image block.
type BlockType uint8

const (
	// Block2 is the packed 1 bit per pixel, MSB first monochrome format.
	Block2 BlockType = 0x02
)

func (t BlockType) String() string {
	switch t {
	case Block2:
		return "Block2"
	default:
		return fmt.Sprintf("BlockType(0x%02X)", uint8(t))
	}
}

// ErrUnknownBlockType is returned when no codec is registered for a tag.
var ErrUnknownBlockType = errors.New("firmware: unknown block type")

// Codec converts between a block's packed pixel data and a bitmap.
type Codec interface {
	DataLength(width, height int) int
	Load(data []byte, width, height int) (*image1bit.Bitmap, error)
	Save(m *image1bit.Bitmap, width, height, headerLength int) ([]byte, error)
}

var _ Codec = image1bit.Codec{}

var (
	mu     sync.RWMutex
	codecs = map[BlockType]Codec{
		Block2: image1bit.Codec{},
	}
)

// Register sets the codec used for block type t, replacing any previous one.
func Register(t BlockType, c Codec) {
	mu.Lock()
	defer mu.Unlock()
	codecs[t] = c
}

// Lookup returns the codec registered for block type t.
func Lookup(t BlockType) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := codecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownBlockType, t)
	}
	return c, nil
}
