// Command bitmapctl inspects and edits monochrome image blocks of SSD1327
// firmware images.
//
// Usage:
//
//	bitmapctl [-config file] [-v] <command> [flags]
//
// Commands:
//
//	info    print the size of a block
//	decode  extract a block from a firmware blob to PNG, BMP or text
//	encode  convert a PNG or BMP image to a block, optionally patching a blob
//	show    preview a block on an SSD1327 display
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flavioheleno/ssd1327/internal/config"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

type command struct {
	name  string
	usage string
	run   func(cfg *config.Config, args []string) error
}

var commands = []command{
	{"info", "print stride and data length of a block", runInfo},
	{"decode", "extract a block to an image file or text", runDecode},
	{"encode", "convert an image file to a block", runEncode},
	{"show", "preview a block on an SSD1327 display", runShow},
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] [-v] <command> [flags]\n\nCommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintln(flag.CommandLine.Output(), "\nGlobal flags:")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "bitmapctl.yaml", "YAML configuration file")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.WithField("config", *configPath).Debug("configuration loaded")

	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(&cfg, args); err != nil {
			log.WithField("command", name).Fatal(err)
		}
		return
	}
	log.Errorf("Unknown command: %s", name)
	flag.Usage()
	os.Exit(2)
}

// blockFlags registers the flags shared by every command that addresses an
// image block, defaulting to the configuration values.
func blockFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels")
	fs.IntVar(&cfg.HeaderLength, "header", cfg.HeaderLength, "Block header length in bytes")
	fs.IntVar(&cfg.Offset, "offset", cfg.Offset, "Offset of the block header in the firmware blob")
}
