package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"github.com/scalrx/go-mapbin/screen"
)

type convertCmd struct {
	inputFormat  string
	inputPath    string
	outputFormat string
	outputPath   string
	clustered    bool
	lenient      bool
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert between world map storage formats" }
func (c *convertCmd) Usage() string {
	return "mapbin convert -i <path> -o <path> [-if <format> | -of <format>]\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (raw, gz, sqlite, dir)")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (raw, gz, sqlite, dir)")
	f.BoolVar(&c.clustered, "clustered", false, "Order output screens along a Hilbert curve")
	f.BoolVar(&c.lenient, "lenient", false, "Tolerate unrecognized bytes in screen headers")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputPath, err := expandPath(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	outputPath, err := expandPath(c.outputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	reader, err := openReader(c.inputFormat, inputPath, c.lenient)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	writer, err := openWriter(c.outputFormat, outputPath, c.clustered)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = reader.VisitScreens(func(coord screen.Coord, payload []byte) error {
		err := writer.WriteScreen(coord, payload)
		bar.Add(1)
		return err
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
