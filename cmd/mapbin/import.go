package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"github.com/scalrx/go-mapbin/index"
)

type importCmd struct {
	inputIndexPath string
	inputRawPath   string
	outputFormat   string
	outputPath     string
	clustered      bool
}

func (c *importCmd) Name() string     { return "import_index" }
func (c *importCmd) Synopsis() string { return "create world map from exported index and raw container" }
func (c *importCmd) Usage() string {
	return "mapbin import_index -i <path> -t <path> -o <path> [-of <format>]\n"
}
func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputIndexPath, "i", "", "Input index file path")
	f.StringVar(&c.inputRawPath, "t", "", "Input raw container path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (raw, gz, sqlite, dir)")
	f.BoolVar(&c.clustered, "clustered", false, "Order output screens along a Hilbert curve")
}

func (c *importCmd) importScreens() error {
	indexPath, err := expandPath(c.inputIndexPath)
	if err != nil {
		return err
	}
	rawPath, err := expandPath(c.inputRawPath)
	if err != nil {
		return err
	}
	outputPath, err := expandPath(c.outputPath)
	if err != nil {
		return err
	}

	indexData, err := os.ReadFile(indexPath)
	if err != nil {
		return err
	}

	indexItems, err := index.ReadAll(indexData)
	if err != nil {
		return err
	}
	if len(indexItems) == 0 {
		return fmt.Errorf("index %v is empty", indexPath)
	}

	rawFile, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer rawFile.Close()

	writer, err := openWriter(c.outputFormat, outputPath, c.clustered)
	if err != nil {
		return err
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	maxLength := slices.MaxFunc(indexItems, func(a, b index.Item) int {
		return cmp.Compare(a.Length, b.Length)
	}).Length
	buffer := make([]byte, maxLength)

	slices.SortFunc(indexItems, func(a, b index.Item) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	bar := progressbar.New(len(indexItems))

	for _, item := range indexItems {
		payload := buffer[:item.Length]
		if _, err := rawFile.ReadAt(payload, int64(item.Offset)); err != nil {
			return fmt.Errorf("screen %v: %w", item.Coord(), err)
		}
		if err := writer.WriteScreen(item.Coord(), payload); err != nil {
			return err
		}
		bar.Add(1)
	}

	bar.Finish()
	fmt.Println()

	return writer.Finalize()
}

func (c *importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.importScreens(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
