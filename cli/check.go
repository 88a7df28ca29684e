package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/lialzmChina/beancount/loader"
	"github.com/lialzmChina/beancount/parser"
	"github.com/lialzmChina/beancount/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	result, sourceContent, err := loadResult(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	if !result.Valid() {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(result.Errors))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(result.Errors)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%s: %d directive(s), no errors",
		filepath.Base(cmd.File.Filename), len(result.Directives)))

	return nil
}

// loadResult parses the command's input, following includes for real files.
// Stdin cannot anchor relative includes, so its includes stay unresolved.
func loadResult(ctx context.Context, file *FileOrStdin, cfg *Config) (*parser.Result, []byte, error) {
	sourceContent, err := file.GetSourceContent()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}

	opts := []loader.Option{loader.WithParseOptions(cfg.ParseOptions()...)}
	if file.Filename != "<stdin>" {
		opts = append(opts, loader.WithFollowIncludes())
	}

	ldr := loader.New(opts...)
	result, err := ldr.LoadBytes(ctx, file.GetAbsoluteFilename(), sourceContent)
	if err != nil {
		return nil, nil, err
	}

	return result, sourceContent, nil
}
