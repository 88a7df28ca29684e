// Package parser implements the grammar + builder pipeline for Beancount
// ledger files: a line-oriented lexer, a recursive-descent grammar engine
// over the directive grammar, an arithmetic evaluator for number
// expressions, and the Builder callback contract through which the typed
// AST is constructed while syntactic errors are captured and sequenced.
//
// The parser faithfully reports what was written and interprets nothing:
// balances are not computed, accounts are not cross-checked, includes are
// not resolved. Errors never abort a parse; they accumulate on the builder
// and flag the result.
package parser

import (
	"context"

	"github.com/lialzmChina/beancount/ast"
	"github.com/lialzmChina/beancount/telemetry"
)

// Result is the outcome of parsing one source buffer. Directives appear in
// source order; errors appear in detection order.
type Result struct {
	Filename   string
	Directives []ast.Directive
	Errors     []*Error
	Options    []*ast.Option
	Includes   []*ast.Include
	Plugins    []*ast.Plugin

	// Incomplete is set when the parse was cancelled before reaching end
	// of input; the fields above hold whatever had been accumulated.
	Incomplete bool

	options map[string]string
}

// Valid reports whether the parse completed without recording any error.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Option returns the value of a named option and whether it was set.
func (r *Result) Option(name string) (string, bool) {
	value, ok := r.options[name]
	return value, ok
}

// ParseOption configures a parse.
type ParseOption func(*Parser)

// WithPrecision sets the number of fractional digits carried by inexact
// divisions in number expressions. The default is DefaultPrecision.
func WithPrecision(digits int32) ParseOption {
	return func(p *Parser) {
		p.precision = digits
	}
}

// WithRounding sets the rounding mode for inexact divisions. The default
// is RoundHalfEven.
func WithRounding(mode RoundingMode) ParseOption {
	return func(p *Parser) {
		p.rounding = mode
	}
}

// WithVerboseErrors makes unexpected-token errors name the tokens that
// would have been accepted.
func WithVerboseErrors() ParseOption {
	return func(p *Parser) {
		p.verbose = true
	}
}

// Parse parses a source buffer and returns the accumulated directives,
// declarations, and errors. The filename is only used for positions; no
// file I/O happens here.
//
// Cancellation is cooperative: the context is consulted at line boundaries
// and a cancelled parse returns the partial result with Incomplete set.
func Parse(ctx context.Context, filename string, source []byte, opts ...ParseOption) *Result {
	collector := telemetry.FromContext(ctx)
	span := collector.Start("parse " + filename)
	defer span.End()

	builder := NewTreeBuilder()

	lexSpan := span.Child("lex")
	lexer := NewLexer(source, filename, builder)
	tokens := lexer.ScanAll()
	lexSpan.End()

	grammarSpan := span.Child("grammar")
	p := NewParser(source, tokens, filename, lexer.Interner(), builder)
	for _, opt := range opts {
		opt(p)
	}
	p.parseFile(ctx)
	grammarSpan.End()

	return &Result{
		Filename:   filename,
		Directives: builder.directives,
		Errors:     builder.Errors(),
		Options:    builder.options,
		Includes:   builder.includes,
		Plugins:    builder.plugins,
		Incomplete: p.incomplete,
		options:    builder.optionMap,
	}
}

// ParseString parses source held in a string.
func ParseString(ctx context.Context, filename, source string, opts ...ParseOption) *Result {
	return Parse(ctx, filename, []byte(source), opts...)
}

// ParseWithBuilder runs the grammar against a caller-provided Builder. The
// builder observes every reduction; whatever it accumulates is its own.
// It reports whether the parse ran to completion.
func ParseWithBuilder(ctx context.Context, filename string, source []byte, builder Builder, opts ...ParseOption) bool {
	lexer := NewLexer(source, filename, builder)
	tokens := lexer.ScanAll()

	p := NewParser(source, tokens, filename, lexer.Interner(), builder)
	for _, opt := range opts {
		opt(p)
	}
	p.parseFile(ctx)

	return !p.incomplete
}
