package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lialzmChina/beancount/parser"
	"github.com/lialzmChina/beancount/printer"
)

type FormatCmd struct {
	File           FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	CurrencyColumn int         `help:"Column for currency alignment (derived from content if 0)." default:"0"`
	Write          bool        `help:"Rewrite the input file in place instead of printing to stdout." short:"w"`
}

// Run reformats a single file. Includes are deliberately not followed:
// formatting rewrites one file at a time.
func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result := parser.Parse(context.Background(), cmd.File.GetAbsoluteFilename(), sourceContent, cfg.ParseOptions()...)
	if !result.Valid() {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(result.Errors))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "refusing to format a file with parse errors")
		return NewCommandError(1)
	}

	opts := printerOptions(cfg)
	if cmd.CurrencyColumn > 0 {
		opts = append(opts, printer.WithCurrencyColumn(cmd.CurrencyColumn))
	}
	p := printer.New(opts...)

	var buf bytes.Buffer
	if err := p.PrintResult(&buf, result); err != nil {
		return err
	}

	if !cmd.Write || cmd.File.Filename == "<stdin>" {
		_, _ = ctx.Stdout.Write(buf.Bytes())
		return nil
	}

	if isTerminal() {
		confirm, err := promptYesNo(fmt.Sprintf("Rewrite %s in place?", cmd.File.Filename))
		if err != nil {
			return err
		}
		if !confirm {
			printInfof(ctx.Stdout, "left %s untouched", cmd.File.Filename)
			return nil
		}
	}

	if err := os.WriteFile(cmd.File.Filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File.Filename, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("formatted %s", cmd.File.Filename))
	return nil
}
