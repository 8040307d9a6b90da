// Package image1bit provides the 1-bit monochrome image block format used in
// SSD1327 firmware images.
//
// Pixels are packed 8 per byte, most significant bit first. Each row starts on
// a fresh byte, so a row occupies Stride(width) = ceil(width/8) bytes and the
// unused low bits of the last byte of a row are zero.
//
// Memory layout example for a 10-pixel row:
//
//	Pixels: 0 1 2 3 4 5 6 7 | 8 9
//	Values: 1 0 1 1 0 0 0 1 | 1 1
//	Bytes:  0xB1            | 0xC0
//	        (0xC0 = pixels 8 and 9 in the two high bits, 6 padding bits)
//
// This package provides:
//
// - Bit: a color type for a single lit or clear pixel
// - BitModel: a color model converting standard Go colors to Bit
// - Bitmap: the in-memory pixel matrix, an image.Image and draw.Image
// - DataLength, Load and Save: the packed codec
//
// Example usage:
//
//	bm, err := image1bit.Load(pixelData, 64, 48)
//	if err != nil {
//		return err
//	}
//	bm.SetBit(3, 4, true)
//	out, err := image1bit.Save(bm, 64, 48, headerLength)
package image1bit
