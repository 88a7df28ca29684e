package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/lialzmChina/beancount/printer"
	"github.com/lialzmChina/beancount/telemetry"
)

type DumpCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run parses the input and prints the surviving directives in canonical
// form. Errors go to stderr; the directives parsed around them are still
// printed, which is the point of error recovery.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
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
	}

	p := printer.New(printerOptions(cfg)...)
	if err := p.PrintResult(ctx.Stdout, result); err != nil {
		return err
	}

	if !result.Valid() {
		return NewCommandError(1)
	}
	return nil
}

func printerOptions(cfg *Config) []printer.Option {
	var opts []printer.Option
	if cfg.CurrencyColumn > 0 {
		opts = append(opts, printer.WithCurrencyColumn(cfg.CurrencyColumn))
	}
	return opts
}
