// Package ssd1327 controls a SSD1327 OLED display via SPI, showing 1-bit
// monochrome firmware images.
//
// The SSD1327 is a 4-bit grayscale controller with 128x128 pixels of RAM.
// This driver renders image1bit bitmaps, lighting set pixels at a single
// configurable gray level.
//
// See the examples for how to use this package.
package ssd1327

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/ssd1327/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// ramSize is the width and height of the controller's display RAM.
const ramSize = 128

var errHalted = errors.New("ssd1327: halted")

// Opts is the configuration for the SSD1327 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 128, must be even and ≤128)
	H int // Height (default: 128, must be ≤128)

	// Level is the gray level (1-15) used for lit pixels. 0 selects 15.
	Level byte

	// Rotated turns the picture by 180°.
	Rotated bool

	// Optional hardware reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)
}

// Dev is the device handle for the SSD1327 display.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI connection
	dc  gpio.PinOut // Data/Command pin
	rst gpio.PinIO  // Reset pin (optional)

	// Display geometry
	rect         image.Rectangle
	columnOffset int // For centering on the 128-column RAM
	level        byte

	// Pixel buffers
	next *image1bit.Bitmap // Frame being drawn
	last *image1bit.Bitmap // Last frame sent to the display

	halted bool
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W%2 != 0 || o.W > ramSize {
		return errors.New("ssd1327: width must be even and between 2 and 128")
	}
	if o.H <= 0 || o.H > ramSize {
		return errors.New("ssd1327: height must be between 1 and 128")
	}
	if o.Level > 15 {
		return errors.New("ssd1327: level must be between 0 and 15")
	}
	return nil
}

// NewSPI creates a new SSD1327 device connected via SPI.
//
// The SPI port is configured for 10MHz, Mode0, 8-bit transfers. The dc
// (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use defaults (128x128 display).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: ramSize, H: ramSize}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ssd1327: %w", err)
	}
	return newDev(c, dc, opts)
}

// newDev initializes the display over an established connection.
func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	level := opts.Level
	if level == 0 {
		level = 15
	}
	next, err := image1bit.NewBitmap(opts.W, opts.H)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		c:            c,
		dc:           dc,
		rst:          opts.RST,
		rect:         image.Rect(0, 0, opts.W, opts.H),
		columnOffset: ((ramSize - opts.W) / 2) &^ 1,
		level:        level,
		next:         next,
		last:         next.Clone(),
	}

	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ssd1327: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ssd1327: failed to pull RST high: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Horizontal address increment, nibble remap and COM split odd/even.
	remap := byte(0x51)
	if opts.Rotated {
		remap = 0x42
	}

	cmds := []byte{
		0xFD, 0x12, // Unlock command codes
		0xAE,                   // Display OFF
		0xA8, byte(opts.H - 1), // MUX ratio
		0xA1, 0x00, // Start line
		0xA2, 0x00, // Display offset
		0xA0, remap, // Remap
		0xAB, 0x01, // Function selection (enable internal VDD)
		0x81, 0x80, // Contrast
		0xB1, 0x51, // Phase length
		0xB3, 0x01, // Clock divider and oscillator frequency
		0xB9,       // Use default linear grayscale table
		0xBC, 0x08, // Pre-charge voltage
		0xBE, 0x07, // VCOMH voltage
		0xB6, 0x01, // Second pre-charge period
		0xD5, 0x62, // Function selection B (enable second pre-charge)
		0xA4, // Normal display mode
		0x2E, // Deactivate scroll
	}
	if err := d.sendCommands(cmds); err != nil {
		return err
	}

	if err := d.clearRAM(); err != nil {
		return err
	}

	return d.sendCommand(0xAF) // Display ON
}

// clearRAM clears all pixels in the display RAM.
func (d *Dev) clearRAM() error {
	commands := []byte{
		0x15, 0, ramSize/2 - 1, // Column address
		0x75, 0, ramSize - 1, // Row address
	}
	if err := d.sendCommands(commands); err != nil {
		return err
	}
	return d.sendData(make([]byte, ramSize*ramSize/2))
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

// sendCommands sends a slice of command bytes.
func (d *Dev) sendCommands(cmds []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(cmds, nil)
}

// sendData sends a slice of data bytes.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// writeRect writes nibble packed pixel data to a rectangular region. x and
// width must be even.
func (d *Dev) writeRect(x, y, width, height int, pixels []byte) error {
	colStart := byte((x + d.columnOffset) / 2)
	colEnd := byte((x + width - 1 + d.columnOffset) / 2)

	commands := []byte{
		0x15, colStart, colEnd, // Column address
		0x75, byte(y), byte(y + height - 1), // Row address
	}
	if err := d.sendCommands(commands); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes a packed 1-bit frame, in the firmware Block2 layout, to the
// display. The data must be exactly image1bit.DataLength(W, H) bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != image1bit.DataLength(d.rect.Dx(), d.rect.Dy()) {
		return 0, errors.New("ssd1327: invalid buffer size")
	}
	m, err := image1bit.Load(pixels, d.rect.Dx(), d.rect.Dy())
	if err != nil {
		return 0, fmt.Errorf("ssd1327: %w", err)
	}
	if err := d.writeFullFrame(m); err != nil {
		return 0, err
	}
	copy(d.next.Pix, m.Pix)
	copy(d.last.Pix, m.Pix)
	return len(pixels), nil
}

// Draw draws an image onto the display, sending only the changed region.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	clipped := dst.Intersect(d.rect)
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(dst.Min))
	dst = clipped

	// Fast path: a full size bitmap is sent as is.
	if m, ok := src.(*image1bit.Bitmap); ok {
		if dst == d.rect && sp == (image.Point{}) && m.Bounds() == d.rect {
			if err := d.writeFullFrame(m); err != nil {
				return err
			}
			copy(d.next.Pix, m.Pix)
			copy(d.last.Pix, m.Pix)
			return nil
		}
	}

	draw.Draw(d.next, dst, src, sp, draw.Src)

	minCol, maxCol, minRow, maxRow := d.calculateDiff()
	if minCol > maxCol {
		return nil
	}

	changed := d.extractRegion(d.next, minCol, maxCol, minRow, maxRow)
	if err := d.writeRect(minCol, minRow, maxCol-minCol+1, maxRow-minRow+1, changed); err != nil {
		return err
	}
	copy(d.last.Pix, d.next.Pix)
	return nil
}

// calculateDiff compares the next and last frames to find the minimal changed
// region, widened to whole RAM columns (pixel pairs). Returns (minCol,
// maxCol, minRow, maxRow), with minCol > maxCol if nothing changed.
func (d *Dev) calculateDiff() (minCol, maxCol, minRow, maxRow int) {
	width := d.rect.Dx()
	height := d.rect.Dy()

	minRow, maxRow = height, -1
	minCol, maxCol = width, -1

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if d.next.BitAt(x, y) == d.last.BitAt(x, y) {
				continue
			}
			minRow = min(minRow, y)
			maxRow = max(maxRow, y)
			minCol = min(minCol, x)
			maxCol = max(maxCol, x)
		}
	}
	if maxCol < 0 {
		return 1, 0, 0, 0
	}

	minCol &^= 1
	maxCol |= 1
	return
}

// extractRegion expands the pixels of a rectangular region of m to the
// controller's nibble format, two pixels per byte, high nibble first.
func (d *Dev) extractRegion(m *image1bit.Bitmap, minCol, maxCol, minRow, maxRow int) []byte {
	byteWidth := (maxCol - minCol + 1) / 2
	result := make([]byte, 0, byteWidth*(maxRow-minRow+1))

	for y := minRow; y <= maxRow; y++ {
		for x := minCol; x <= maxCol; x += 2 {
			var b byte
			if m.BitAt(x, y) {
				b |= d.level << 4
			}
			if m.BitAt(x+1, y) {
				b |= d.level
			}
			result = append(result, b)
		}
	}
	return result
}

// writeFullFrame writes the whole of m to the display.
func (d *Dev) writeFullFrame(m *image1bit.Bitmap) error {
	w, h := d.rect.Dx(), d.rect.Dy()
	return d.writeRect(0, 0, w, h, d.extractRegion(m, 0, w-1, 0, h-1))
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return errHalted
	}
	return d.sendCommands([]byte{0x81, contrast})
}

// Invert inverts the display colors (black becomes white and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	mode := byte(0xA4) // Normal display
	if invert {
		mode = 0xA7 // Inverse display
	}
	return d.sendCommand(mode)
}

// Halt powers off the display.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommand(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1327.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed defines the horizontal scroll frame interval.
type ScrollSpeed byte

const (
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x06
	Speed6Frames   ScrollSpeed = 0x00
	Speed10Frames  ScrollSpeed = 0x01
	Speed100Frames ScrollSpeed = 0x02
	Speed200Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts horizontal scrolling of rows startRow to endRow
// over the display's columns. If right is true, scrolls right; otherwise
// scrolls left.
func (d *Dev) ScrollHorizontal(startRow, endRow byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return errHalted
	}
	if int(startRow) >= d.rect.Dy() || int(endRow) >= d.rect.Dy() || startRow > endRow {
		return errors.New("ssd1327: scroll row out of range")
	}

	scrollCmd := byte(0x27) // Left
	if right {
		scrollCmd = 0x26 // Right
	}

	colStart := byte(d.columnOffset / 2)
	colEnd := byte((d.columnOffset + d.rect.Dx() - 1) / 2)

	return d.sendCommands([]byte{
		scrollCmd,
		0x00,        // Dummy byte
		startRow,    // Start row
		byte(speed), // Time interval
		endRow,      // End row
		colStart,    // Start column
		colEnd,      // End column
		0x00,        // Dummy byte
		0x2F,        // Activate scroll
	})
}

// StopScroll stops all scrolling. RAM must be rewritten afterwards.
func (d *Dev) StopScroll() error {
	if d.halted {
		return errHalted
	}
	return d.sendCommand(0x2E) // Deactivate scroll
}
