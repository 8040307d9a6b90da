// Package ssd1327 controls a SSD1327 OLED display via SPI.
//
// The SSD1327 is a 4-bit grayscale OLED controller with 128×128 pixels of
// RAM. Firmware images for these panels store pictures as packed 1-bit
// bitmaps (see package image1bit); this driver previews them on real
// hardware, lighting set pixels at one gray level.
//
// # Display Characteristics
//
// - 4-bit grayscale RAM, driven here as monochrome
// - Resolutions up to 128×128, smaller panels centered in RAM
// - Hardware scrolling support (horizontal only)
// - Adjustable contrast (0-255)
// - Display inversion
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RES         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/ssd1327"
//		"github.com/flavioheleno/ssd1327/image1bit"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//		spiBus, _ := spireg.Open("")
//		dcPin := gpioreg.ByName("GPIO25")
//
//		dev, _ := ssd1327.NewSPI(spiBus, dcPin, &ssd1327.Opts{W: 64, H: 48})
//		defer dev.Halt()
//
//		// pixelData holds image1bit.DataLength(64, 48) bytes from a firmware blob.
//		bm, _ := image1bit.Load(pixelData, 64, 48)
//		dev.Draw(dev.Bounds(), bm, image.Point{})
//	}
//
// # Drawing Modes
//
// ## Full-Frame Update
//
// Write takes packed 1-bit data in the firmware layout, so a block can be
// shown without decoding it first:
//
//	dev.Write(pixelData) // image1bit.DataLength(W, H) bytes
//
// ## Differential Updates
//
// Draw accepts any image.Image. Colors are reduced with image1bit.BitModel and
// only the bounding rectangle of changed pixels is sent.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/SSD1327.pdf
package ssd1327
