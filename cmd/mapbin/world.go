package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"
	"github.com/scalrx/go-mapbin/world"
)

type decompressCmd struct {
	worldDir string
	force    bool
}

func (c *decompressCmd) Name() string     { return "decompress" }
func (c *decompressCmd) Synopsis() string { return "refresh Map.bin.raw of a world directory" }
func (c *decompressCmd) Usage() string {
	return "mapbin decompress -w <world dir> [-f]\n"
}
func (c *decompressCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.worldDir, "w", "", "World directory containing Map.bin")
	f.BoolVar(&c.force, "f", false, "Decompress even if Map.bin.raw is fresh")
}

func (c *decompressCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	dir, err := expandPath(c.worldDir)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	files := world.Files{Dir: dir}

	if c.force {
		err = files.Decompress()
	} else {
		_, err = files.EnsureRaw(slog.Default())
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

type watchCmd struct {
	worldDir string
	settle   time.Duration
}

func (c *watchCmd) Name() string     { return "watch" }
func (c *watchCmd) Synopsis() string { return "refresh Map.bin.raw whenever Map.bin changes" }
func (c *watchCmd) Usage() string {
	return "mapbin watch -w <world dir> [-settle <duration>]\n"
}
func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.worldDir, "w", "", "World directory containing Map.bin")
	f.DurationVar(&c.settle, "settle", time.Second, "Wait for writes to Map.bin to settle before refreshing")
}

func (c *watchCmd) refresh(files world.Files) {
	decompressed, err := files.EnsureRaw(slog.Default())
	if err != nil {
		slog.Error("mapbin: refresh failed", "dir", files.Dir, "error", err)
		return
	}
	if decompressed {
		slog.Info("mapbin: refreshed", "path", files.Raw())
	}
}

// isMapChange reports whether event rewrites or replaces the file at mapPath.
func isMapChange(event fsnotify.Event, mapPath string) bool {
	if filepath.Clean(event.Name) != mapPath {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	dir, err := expandPath(c.worldDir)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	files := world.Files{Dir: dir}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	c.refresh(files)

	mapPath := filepath.Clean(files.Map())
	timer := time.NewTimer(c.settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case event, ok := <-watcher.Events:
			if !ok {
				return subcommands.ExitSuccess
			}
			if isMapChange(event, mapPath) {
				slog.Debug("mapbin: map changed", "op", event.Op)
				timer.Reset(c.settle)
			}
		case <-timer.C:
			c.refresh(files)
		case err, ok := <-watcher.Errors:
			if !ok {
				return subcommands.ExitSuccess
			}
			slog.Error("mapbin: watcher", "error", err)
		}
	}
}
