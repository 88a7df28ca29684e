// Package beancount is the library facade over the ledger parser: it
// re-exports the parse entry points for embedders that do not need to
// reach into the parser, printer, or loader packages directly.
package beancount

import (
	"context"

	"github.com/lialzmChina/beancount/parser"
)

// Result is the outcome of a parse. See parser.Result.
type Result = parser.Result

// Parse parses ledger source held in a byte buffer. The filename is used
// for positions only.
func Parse(ctx context.Context, filename string, source []byte, opts ...parser.ParseOption) *Result {
	return parser.Parse(ctx, filename, source, opts...)
}

// ParseString parses ledger source held in a string.
func ParseString(ctx context.Context, filename, source string, opts ...parser.ParseOption) *Result {
	return parser.ParseString(ctx, filename, source, opts...)
}
