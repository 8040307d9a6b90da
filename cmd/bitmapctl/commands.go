package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/flavioheleno/ssd1327"
	"github.com/flavioheleno/ssd1327/image1bit"
	"github.com/flavioheleno/ssd1327/internal/config"
	"github.com/flavioheleno/ssd1327/internal/convert"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func parse(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

func blockFields(cfg *config.Config) logrus.Fields {
	return logrus.Fields{
		"width":  cfg.Width,
		"height": cfg.Height,
		"header": cfg.HeaderLength,
		"offset": cfg.Offset,
	}
}

// loadBlock reads the firmware blob at path and decodes the configured block.
func loadBlock(cfg *config.Config, path string) (*image1bit.Bitmap, error) {
	if path == "" {
		return nil, errors.New("missing -in firmware file")
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(blockFields(cfg)).WithField("bytes", len(blob)).Debug("firmware loaded")
	return cfg.Metadata().Load(blob)
}

func runInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	blockFlags(fs, cfg)
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	md := cfg.Metadata()
	n, err := md.DataLength()
	if err != nil {
		return err
	}
	fmt.Printf("Block type:  %v\n", md.BlockType)
	fmt.Printf("Dimensions:  %dx%d\n", md.Width, md.Height)
	fmt.Printf("Stride:      %d bytes\n", image1bit.Stride(md.Width))
	fmt.Printf("Data length: %d bytes\n", n)
	fmt.Printf("Block size:  %d bytes (header %d)\n", md.HeaderLength+n, md.HeaderLength)
	return nil
}

func runDecode(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	blockFlags(fs, cfg)
	in := fs.String("in", "", "Firmware file")
	out := fs.String("out", "", "Output image (.png or .bmp); prints text when empty")
	invert := fs.Bool("invert", false, "Invert pixels")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	m, err := loadBlock(cfg, *in)
	if err != nil {
		return err
	}
	if *invert {
		m.Invert()
	}

	if *out == "" {
		fmt.Print(convert.ASCII(m, '#', '.'))
		return nil
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := convert.Encode(f, *out, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.WithFields(blockFields(cfg)).WithField("file", *out).Info("block decoded")
	return nil
}

func runEncode(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	blockFlags(fs, cfg)
	in := fs.String("in", "", "Input image (.png or .bmp)")
	out := fs.String("out", "", "Output block file (header and pixel data)")
	patch := fs.String("patch", "", "Firmware file whose pixel data at -offset is replaced in place")
	dithering := fs.Bool("dither", false, "Use Floyd-Steinberg dithering")
	invert := fs.Bool("invert", false, "Invert pixels")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("missing -in image file")
	}
	if *out == "" && *patch == "" {
		return errors.New("one of -out or -patch is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	img, err := convert.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	m, err := convert.FromImage(img, cfg.Width, cfg.Height, *dithering)
	if err != nil {
		return err
	}
	if *invert {
		m.Invert()
	}

	md := cfg.Metadata()
	block, err := md.Save(m)
	if err != nil {
		return err
	}

	if *out != "" {
		if err := os.WriteFile(*out, block, 0644); err != nil {
			return err
		}
		log.WithFields(blockFields(cfg)).WithField("bytes", len(block)).Infof("block written to %s", *out)
	}
	if *patch != "" {
		if err := patchBlob(*patch, md.DataOffset+md.HeaderLength, block[md.HeaderLength:]); err != nil {
			return err
		}
		log.WithFields(blockFields(cfg)).Infof("pixel data patched into %s", *patch)
	}
	return nil
}

// patchBlob overwrites len(data) bytes of the file at path starting at off.
// The existing block header is left untouched.
func patchBlob(path string, off int, data []byte) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if off > len(blob) || len(data) > len(blob)-off {
		return fmt.Errorf("%w: %d bytes at offset %d, firmware is %d bytes",
			image1bit.ErrBufferTooShort, len(data), off, len(blob))
	}
	copy(blob[off:], data)
	return os.WriteFile(path, blob, 0644)
}

func runShow(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	blockFlags(fs, cfg)
	in := fs.String("in", "", "Firmware file")
	fs.StringVar(&cfg.Display.SPI, "spi", cfg.Display.SPI, "SPI bus name (empty for default)")
	fs.StringVar(&cfg.Display.DC, "dc", cfg.Display.DC, "Data/Command pin name")
	fs.StringVar(&cfg.Display.RST, "rst", cfg.Display.RST, "Reset pin name (optional)")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	m, err := loadBlock(cfg, *in)
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	b, err := spireg.Open(cfg.Display.SPI)
	if err != nil {
		return fmt.Errorf("failed to open SPI bus: %w", err)
	}
	defer b.Close()

	dc := gpioreg.ByName(cfg.Display.DC)
	if dc == nil {
		return fmt.Errorf("GPIO pin %s not found", cfg.Display.DC)
	}
	var rst gpio.PinIO
	if cfg.Display.RST != "" {
		if rst = gpioreg.ByName(cfg.Display.RST); rst == nil {
			return fmt.Errorf("GPIO pin %s not found", cfg.Display.RST)
		}
	}

	dev, err := ssd1327.NewSPI(b, dc, &ssd1327.Opts{
		W:       cfg.Display.Width,
		H:       cfg.Display.Height,
		Level:   byte(cfg.Display.Level),
		Rotated: cfg.Display.Rotated,
		RST:     rst,
	})
	if err != nil {
		return err
	}
	if err := dev.SetContrast(byte(cfg.Display.Contrast)); err != nil {
		return err
	}

	// Center the block on the panel.
	off := image.Pt((dev.Bounds().Dx()-m.Width)/2, (dev.Bounds().Dy()-m.Height)/2)
	dst := m.Bounds().Add(off)
	if err := dev.Draw(dst, m, image.Point{}); err != nil {
		return err
	}
	log.WithFields(blockFields(cfg)).Infof("block shown on %v", dev)
	return nil
}
