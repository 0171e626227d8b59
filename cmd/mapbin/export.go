package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/scalrx/go-mapbin/index"
	"github.com/scalrx/go-mapbin/mapbin"
	"github.com/scalrx/go-mapbin/screen"
	"github.com/scalrx/go-mapbin/world"
)

type exportCmd struct {
	inputPath       string
	worldDir        string
	outputIndexPath string
	lenient         bool
}

func (c *exportCmd) Name() string     { return "export_index" }
func (c *exportCmd) Synopsis() string { return "export screen index of a raw container" }
func (c *exportCmd) Usage() string {
	return "mapbin export_index (-i <Map.bin.raw> | -w <world dir>) -o <path>\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input raw container path")
	f.StringVar(&c.worldDir, "w", "", "World directory containing Map.bin")
	f.StringVar(&c.outputIndexPath, "o", "", "Output index file path")
	f.BoolVar(&c.lenient, "lenient", false, "Tolerate unrecognized bytes in screen headers")
}

func (c *exportCmd) openReader() (*mapbin.Reader, error) {
	var indexOptions []mapbin.IndexOption
	if c.lenient {
		indexOptions = append(indexOptions, mapbin.WithLenientHeaders())
	}
	if c.worldDir != "" {
		dir, err := expandPath(c.worldDir)
		if err != nil {
			return nil, err
		}
		return world.Open(dir, world.WithIndexOptions(indexOptions...))
	}
	inputPath, err := expandPath(c.inputPath)
	if err != nil {
		return nil, err
	}
	return mapbin.NewFileReader(inputPath, indexOptions...)
}

func (c *exportCmd) exportLocations(reader screen.LocationVisitor) error {
	outputPath, err := expandPath(c.outputIndexPath)
	if err != nil {
		return err
	}

	indexItems := make([]index.Item, 0)
	err = reader.VisitLocations(func(coord screen.Coord, location screen.Location) error {
		item, err := index.NewItem(coord, location)
		if err != nil {
			return err
		}
		indexItems = append(indexItems, item)
		return nil
	})
	if err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := index.WriteAll(indexItems, writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := c.openReader()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := c.exportLocations(reader); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
