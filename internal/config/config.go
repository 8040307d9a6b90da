// Package config holds the bitmapctl configuration file format.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/flavioheleno/ssd1327/firmware"
	"gopkg.in/yaml.v2"
)

// Config describes the image block being edited and the preview display.
type Config struct {
	BlockType    uint8   `yaml:"block_type"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	HeaderLength int     `yaml:"header_length"`
	Offset       int     `yaml:"offset"`
	Display      Display `yaml:"display"`
}

// Display configures the SSD1327 used by the show command.
type Display struct {
	SPI      string `yaml:"spi"`
	DC       string `yaml:"dc"`
	RST      string `yaml:"rst"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Contrast int    `yaml:"contrast"`
	Level    int    `yaml:"level"`
	Rotated  bool   `yaml:"rotated"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BlockType: uint8(firmware.Block2),
		Width:     64,
		Height:    48,
		Display: Display{
			DC:       "GPIO25",
			Width:    128,
			Height:   128,
			Contrast: 255,
			Level:    15,
		},
	}
}

// Load reads a YAML configuration file over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file '%s': %w", path, err)
	}
	return nil
}

// Validate checks the block and display settings.
func (c Config) Validate() error {
	if err := c.Metadata().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Display.Contrast < 0 || c.Display.Contrast > 255 {
		return fmt.Errorf("config: contrast %d out of range 0-255", c.Display.Contrast)
	}
	if c.Display.Level < 0 || c.Display.Level > 15 {
		return fmt.Errorf("config: level %d out of range 0-15", c.Display.Level)
	}
	return nil
}

// Metadata returns the firmware block described by c.
func (c Config) Metadata() *firmware.ImageMetadata {
	return &firmware.ImageMetadata{
		BlockType:    firmware.BlockType(c.BlockType),
		Width:        c.Width,
		Height:       c.Height,
		HeaderLength: c.HeaderLength,
		DataOffset:   c.Offset,
	}
}
