package main

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/flavioheleno/ssd1327/image1bit"
	"github.com/flavioheleno/ssd1327/internal/config"
	"github.com/flavioheleno/ssd1327/internal/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestEncodeDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 9, 2))
	src.SetGray(0, 0, color.Gray{Y: 0xFF})
	src.SetGray(8, 1, color.Gray{Y: 0xFF})
	writePNG(t, filepath.Join(dir, "in.png"), src)

	cfg := config.Default()
	block := filepath.Join(dir, "block.bin")
	err := runEncode(&cfg, []string{
		"-width", "9", "-height", "2", "-header", "2",
		"-in", filepath.Join(dir, "in.png"), "-out", block,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(block)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0x80, 0x00, 0x00, 0x80}, data)

	cfg = config.Default()
	out := filepath.Join(dir, "out.bmp")
	err = runDecode(&cfg, []string{
		"-width", "9", "-height", "2", "-header", "2",
		"-in", block, "-out", out,
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := convert.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 9, 2), img.Bounds())

	m, err := convert.FromImage(img, 9, 2, false)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		for x := 0; x < 9; x++ {
			lit := (x == 0 && y == 0) || (x == 8 && y == 1)
			assert.Equal(t, lit, m.BitAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestEncodePatch(t *testing.T) {
	dir := t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 8, 1))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	writePNG(t, filepath.Join(dir, "in.png"), src)

	fw := filepath.Join(dir, "fw.bin")
	require.NoError(t, os.WriteFile(fw, []byte{0x11, 0x22, 0x33, 0x00, 0x44}, 0644))

	cfg := config.Default()
	err := runEncode(&cfg, []string{
		"-width", "8", "-height", "1", "-header", "2", "-offset", "1",
		"-in", filepath.Join(dir, "in.png"), "-patch", fw,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(fw)
	require.NoError(t, err)
	// Header bytes at 1 and 2 are kept, pixel byte at 3 replaced.
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0xFF, 0x44}, data)
}

func TestPatchBlobTooShort(t *testing.T) {
	fw := filepath.Join(t.TempDir(), "fw.bin")
	require.NoError(t, os.WriteFile(fw, []byte{0, 0}, 0644))
	err := patchBlob(fw, 1, []byte{1, 2})
	assert.ErrorIs(t, err, image1bit.ErrBufferTooShort)

	err = patchBlob(fw, math.MaxInt, []byte{1})
	assert.ErrorIs(t, err, image1bit.ErrBufferTooShort)
}

func TestEncodeRequiresOutput(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, runEncode(&cfg, []string{"-in", "x.png"}))
	assert.Error(t, runEncode(&cfg, []string{"-out", "x.bin"}))
}

func TestDecodeMissingInput(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, runDecode(&cfg, nil))
}

func TestInfoRejectsInvalidDimensions(t *testing.T) {
	cfg := config.Default()
	err := runInfo(&cfg, []string{"-width", "0"})
	assert.ErrorIs(t, err, image1bit.ErrInvalidDimensions)
}
