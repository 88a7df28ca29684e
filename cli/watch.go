package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

type WatchCmd struct {
	File FileOrStdin `help:"Ledger input filename." arg:""`
}

// Run re-checks the file on every write until interrupted. The watch is on
// the containing directory because most editors replace the file on save,
// which drops a watch placed on the file itself.
func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.File.Filename == "" || cmd.File.Filename == "<stdin>" {
		return fmt.Errorf("watch requires a file path")
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printInfof(ctx.Stdout, "watching %s", cmd.File.Filename)
	cmd.checkOnce(ctx, runCtx, cfg)

	for {
		select {
		case <-runCtx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cmd.checkOnce(ctx, runCtx, cfg)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", werr))
		}
	}
}

func (cmd *WatchCmd) checkOnce(ctx *kong.Context, runCtx context.Context, cfg *Config) {
	result, sourceContent, err := loadResult(runCtx, &cmd.File, cfg)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	if !result.Valid() {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(result.Errors))
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(result.Errors)))
		return
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%s: %d directive(s), no errors",
		filepath.Base(cmd.File.Filename), len(result.Directives)))
}
