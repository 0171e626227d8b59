package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
	"github.com/scalrx/go-mapbin/mapbin"
	"github.com/scalrx/go-mapbin/mapdb"
	"github.com/scalrx/go-mapbin/screen"
)

type infoCmd struct {
	inputPath   string
	inputFormat string
	lenient     bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print summary of a world map container" }
func (c *infoCmd) Usage() string {
	return "mapbin info -i <path> [-if <raw|gz|sqlite>]\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input container path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (raw, gz, sqlite)")
	f.BoolVar(&c.lenient, "lenient", false, "Tolerate unrecognized bytes in screen headers")
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputPath, err := expandPath(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	visitor, err := openReader(c.inputFormat, inputPath, c.lenient)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	switch reader := visitor.(type) {
	case *mapbin.Reader:
		err = printContainerInfo(reader)
	case *mapdb.Reader:
		defer reader.Close()
		err = printDatabaseInfo(reader)
	default:
		err = fmt.Errorf("info supports raw, gz and sqlite worlds only")
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func printContainerInfo(reader *mapbin.Reader) error {
	index := reader.Index()
	fmt.Printf("screens:      %v\n", humanize.Comma(int64(index.Len())))
	fmt.Printf("size:         %v\n", humanize.IBytes(uint64(reader.Size())))
	fmt.Printf("payload size: %v\n", humanize.IBytes(uint64(index.PayloadSize())))
	if index.Len() > 0 {
		printBounds(index.Bounds())
	}
	return nil
}

func printDatabaseInfo(reader *mapdb.Reader) error {
	count, err := reader.Count()
	if err != nil {
		return err
	}
	payloadSize, err := reader.PayloadSize()
	if err != nil {
		return err
	}
	fmt.Printf("screens:      %v\n", humanize.Comma(int64(count)))
	fmt.Printf("payload size: %v\n", humanize.IBytes(uint64(payloadSize)))

	bounds, err := reader.Bounds()
	if errors.Is(err, mapdb.ErrNoScreens) {
		return nil
	}
	if err != nil {
		return err
	}
	printBounds(bounds)
	return nil
}

func printBounds(bounds screen.Bounds) {
	fmt.Printf("bounds:       %v .. %v (%v x %v)\n", bounds.Min, bounds.Max, bounds.Width(), bounds.Height())
}
