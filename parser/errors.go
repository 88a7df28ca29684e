package parser

import (
	"fmt"

	"github.com/lialzmChina/beancount/ast"
)

// ErrorKind classifies recorded parse errors.
type ErrorKind uint8

const (
	// KindLex marks errors detected by the lexer: illegal characters,
	// unterminated strings, malformed literals.
	KindLex ErrorKind = iota

	// KindGrammar marks unexpected-token errors detected by the grammar
	// engine.
	KindGrammar

	// KindBuilder marks failures signalled by a Builder method during a
	// reduction.
	KindBuilder

	// KindDeprecated marks warning-class problems in accepted input
	// (deprecated syntax, duplicate cost components), so tools can warn
	// without failing the directive.
	KindDeprecated
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindGrammar:
		return "grammar"
	case KindBuilder:
		return "builder"
	case KindDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

// Error is a single recorded parse problem. Errors never abort the parse;
// they accumulate on the builder and gate Result.Valid.
type Error struct {
	Pos     ast.Position
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Pos.Filename == "" {
		return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, e.Message)
}

// GetPosition exposes the position for error renderers.
func (e *Error) GetPosition() ast.Position {
	return e.Pos
}

// errorList is the append-only accumulator owned by the tree builder.
type errorList struct {
	errors []*Error
}

func (l *errorList) add(pos ast.Position, kind ErrorKind, format string, args ...interface{}) {
	l.errors = append(l.errors, &Error{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// syntaxError is the engine-internal error value produced while a production
// is being parsed. The declaration loop converts it into a recorded Error
// before entering recovery.
type syntaxError struct {
	pos  ast.Position
	kind ErrorKind
	msg  string

	// reported marks errors whose cause the lexer has already recorded;
	// recovery still runs but nothing further is written.
	reported bool
}

func (e *syntaxError) Error() string {
	return e.msg
}

func newSyntaxError(pos ast.Position, format string, args ...interface{}) *syntaxError {
	return &syntaxError{pos: pos, kind: KindGrammar, msg: fmt.Sprintf(format, args...)}
}
