package firmware

import (
	"math"
	"testing"

	"github.com/flavioheleno/ssd1327/image1bit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTypeString(t *testing.T) {
	assert.Equal(t, "Block2", Block2.String())
	assert.Equal(t, "BlockType(0x07)", BlockType(7).String())
}

func TestLookup(t *testing.T) {
	c, err := Lookup(Block2)
	require.NoError(t, err)
	assert.IsType(t, image1bit.Codec{}, c)

	_, err = Lookup(BlockType(0x7F))
	assert.ErrorIs(t, err, ErrUnknownBlockType)
}

type stubCodec struct{ image1bit.Codec }

func TestRegister(t *testing.T) {
	const tag = BlockType(0x42)
	Register(tag, stubCodec{})
	t.Cleanup(func() {
		mu.Lock()
		delete(codecs, tag)
		mu.Unlock()
	})

	c, err := Lookup(tag)
	require.NoError(t, err)
	assert.IsType(t, stubCodec{}, c)
}

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name    string
		md      ImageMetadata
		wantErr error
	}{
		{"valid", ImageMetadata{BlockType: Block2, Width: 9, Height: 2, HeaderLength: 3}, nil},
		{"unknown block", ImageMetadata{BlockType: 0x7F, Width: 9, Height: 2}, ErrUnknownBlockType},
		{"zero width", ImageMetadata{BlockType: Block2, Width: 0, Height: 2}, image1bit.ErrInvalidDimensions},
		{"negative header", ImageMetadata{BlockType: Block2, Width: 1, Height: 1, HeaderLength: -1}, image1bit.ErrInvalidHeaderLength},
		{"overflowing dimensions", ImageMetadata{BlockType: Block2, Width: 1 << 40, Height: 1 << 40}, image1bit.ErrInvalidDimensions},
		{"overflowing header", ImageMetadata{BlockType: Block2, Width: 8, Height: 1, HeaderLength: math.MaxInt}, image1bit.ErrInvalidHeaderLength},
		{"negative offset", ImageMetadata{BlockType: Block2, Width: 1, Height: 1, DataOffset: -4}, ErrInvalidDataOffset},
		{"overflowing offset", ImageMetadata{BlockType: Block2, Width: 1, Height: 1, HeaderLength: 3, DataOffset: math.MaxInt - 1}, ErrInvalidDataOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.md.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMetadataCreateImageDataWithHeader(t *testing.T) {
	md := ImageMetadata{BlockType: Block2, Width: 9, Height: 2, HeaderLength: 3}
	n, err := md.DataLength()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf, err := md.CreateImageDataWithHeader()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 7), buf)
}

func TestMetadataLoadFromBlob(t *testing.T) {
	blob := []byte{
		0xDE, 0xAD, // unrelated data
		0x09, 0x02, 0x00, // block header
		0x80, 0x80, 0x40, 0x80, // pixel data
		0xFF, // trailing block
	}
	md := ImageMetadata{BlockType: Block2, Width: 9, Height: 2, HeaderLength: 3, DataOffset: 2}

	bm, err := md.Load(blob)
	require.NoError(t, err)
	assert.True(t, bm.BitAt(0, 0))
	assert.True(t, bm.BitAt(8, 0))
	assert.True(t, bm.BitAt(1, 1))
	assert.True(t, bm.BitAt(8, 1))
	assert.False(t, bm.BitAt(0, 1))

	out, err := md.Save(bm)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0x80, 0x80, 0x40, 0x80}, out)
}

func TestMetadataLoadShortBlob(t *testing.T) {
	md := ImageMetadata{BlockType: Block2, Width: 9, Height: 2, HeaderLength: 3, DataOffset: 2}

	_, err := md.Load(make([]byte, 8))
	assert.ErrorIs(t, err, image1bit.ErrBufferTooShort)

	_, err = md.Load(make([]byte, 1))
	assert.ErrorIs(t, err, image1bit.ErrBufferTooShort)
}

func TestMetadataLoadHugeValues(t *testing.T) {
	tests := []struct {
		name    string
		md      ImageMetadata
		wantErr error
	}{
		{"offset past blob", ImageMetadata{BlockType: Block2, Width: 8, Height: 1, DataOffset: math.MaxInt - 8}, image1bit.ErrBufferTooShort},
		{"offset overflows with header", ImageMetadata{BlockType: Block2, Width: 8, Height: 1, HeaderLength: 8, DataOffset: math.MaxInt - 4}, ErrInvalidDataOffset},
		{"wide block", ImageMetadata{BlockType: Block2, Width: math.MaxInt, Height: 1}, image1bit.ErrBufferTooShort},
		{"overflowing area", ImageMetadata{BlockType: Block2, Width: 1 << 40, Height: 1 << 40}, image1bit.ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := tt.md.Load(make([]byte, 16))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, bm)
		})
	}
}

func TestMetadataUnknownBlock(t *testing.T) {
	md := ImageMetadata{BlockType: 0x7F, Width: 8, Height: 1}
	bm, err := md.Load(make([]byte, 4))
	assert.ErrorIs(t, err, ErrUnknownBlockType)
	assert.Nil(t, bm)

	src, err := image1bit.NewBitmap(8, 1)
	require.NoError(t, err)
	out, err := md.Save(src)
	assert.ErrorIs(t, err, ErrUnknownBlockType)
	assert.Nil(t, out)
}

func TestMetadataSaveMismatch(t *testing.T) {
	md := ImageMetadata{BlockType: Block2, Width: 9, Height: 2}
	bm, err := image1bit.NewBitmap(8, 2)
	require.NoError(t, err)

	_, err = md.Save(bm)
	assert.ErrorIs(t, err, image1bit.ErrDimensionMismatch)
}

func TestMetadataString(t *testing.T) {
	md := ImageMetadata{BlockType: Block2, Width: 9, Height: 2, HeaderLength: 3, DataOffset: 2}
	assert.Equal(t, "firmware.ImageMetadata{Block2 9x2 @2+3}", md.String())
}
