// Package loader reads ledger files from disk and resolves include
// directives. The parser core only emits include records; following them is
// the embedder's job, and this package is that embedder: every included
// file gets its own parse instance (own builder, own tag context), and the
// per-file results are merged in encounter order.
//
//	// Parse a single file, includes left unresolved.
//	ldr := loader.New()
//	result, err := ldr.Load(ctx, "main.beancount")
//
//	// Recursively resolve includes into one merged result.
//	ldr := loader.New(loader.WithFollowIncludes())
//	result, err := ldr.Load(ctx, "main.beancount")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/lialzmChina/beancount/parser"
	"github.com/lialzmChina/beancount/telemetry"
)

// Loader reads and parses ledger files.
type Loader struct {
	// FollowIncludes makes Load recursively parse included files and
	// merge their results. When false, include records are preserved on
	// the result untouched.
	FollowIncludes bool

	// ParseOptions are forwarded to every parse the loader runs.
	ParseOptions []parser.ParseOption
}

// Option configures a Loader.
type Option func(*Loader)

// WithFollowIncludes enables recursive include resolution. Relative include
// paths resolve against the directory of the including file, files included
// twice are parsed once, and the merged result carries no include records.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// WithParseOptions forwards parse options (precision, rounding, verbose
// errors) to every file the loader parses.
func WithParseOptions(opts ...parser.ParseOption) Option {
	return func(l *Loader) {
		l.ParseOptions = append(l.ParseOptions, opts...)
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the named file. An unreadable root file is an I/O
// error and halts the load; an unreadable included file is recorded on the
// result and the remaining files still load.
func (l *Loader) Load(ctx context.Context, filename string) (*parser.Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, source)
}

// LoadBytes parses source already held in memory, attributing positions to
// filename. Includes are resolved relative to the filename's directory.
func (l *Loader) LoadBytes(ctx context.Context, filename string, source []byte) (*parser.Result, error) {
	span := telemetry.FromContext(ctx).Start("load " + filepath.Base(filename))
	defer span.End()

	result := parser.Parse(ctx, filename, source, l.ParseOptions...)
	if !l.FollowIncludes || len(result.Includes) == 0 {
		return result, nil
	}

	seen := []string{canonicalPath(filename)}
	merged, err := l.followIncludes(ctx, result, filename, &seen)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// followIncludes walks the include records of result depth-first, merging
// each included file's result into a copy of result. The seen list
// deduplicates files included more than once, cycles included.
func (l *Loader) followIncludes(ctx context.Context, result *parser.Result, filename string, seen *[]string) (*parser.Result, error) {
	merged := *result
	merged.Includes = nil

	dir := filepath.Dir(filename)

	for _, include := range result.Includes {
		path := include.Filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		canonical := canonicalPath(path)
		if slices.Contains(*seen, canonical) {
			continue
		}
		*seen = append(*seen, canonical)

		source, err := os.ReadFile(path)
		if err != nil {
			// A missing include does not halt the rest of the load;
			// the failure is recorded like any other parse error.
			merged.Errors = append(merged.Errors, &parser.Error{
				Pos:     include.Pos,
				Kind:    parser.KindBuilder,
				Message: fmt.Sprintf("cannot read included file: %v", err),
			})
			continue
		}

		// Each included file gets its own parse instance; contexts and
		// builders are never shared across files.
		sub := parser.Parse(ctx, path, source, l.ParseOptions...)
		sub, err = l.followIncludes(ctx, sub, path, seen)
		if err != nil {
			return nil, err
		}

		merged.Directives = append(merged.Directives, sub.Directives...)
		merged.Errors = append(merged.Errors, sub.Errors...)
		merged.Options = append(merged.Options, sub.Options...)
		merged.Plugins = append(merged.Plugins, sub.Plugins...)
		merged.Incomplete = merged.Incomplete || sub.Incomplete
	}

	return &merged, nil
}

// canonicalPath normalizes a path for deduplication.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
