package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/lialzmChina/beancount/ast"
)

// Parser is the grammar engine: a hand-rolled recursive-descent driver over
// the declaration grammar. Each completed production is reduced through the
// Builder; failed reductions are recorded and recovered by discarding
// tokens through the next end of line, so malformed directives never
// swallow the valid input after them.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	builder  Builder
	interner *Interner

	precision int32
	rounding  RoundingMode
	verbose   bool

	directives []ast.Directive
	incomplete bool
}

// NewParser creates a grammar engine over a pre-scanned token stream.
func NewParser(source []byte, tokens []Token, filename string, interner *Interner, builder Builder) *Parser {
	return &Parser{
		source:    source,
		filename:  filename,
		tokens:    tokens,
		builder:   builder,
		interner:  interner,
		precision: DefaultPrecision,
	}
}

// parseFile runs the declaration loop to completion. Cancellation is
// cooperative: the context is checked once per declaration, at line
// boundaries.
func (p *Parser) parseFile(ctx context.Context) {
	for !p.isAtEnd() {
		if ctx.Err() != nil {
			p.incomplete = true
			break
		}

		tok := p.peek()
		switch tok.Type {
		case EOL:
			p.advance()

		case INDENT:
			// An indented line with no open directive block belongs
			// to a directive that failed to parse; skip it quietly.
			p.skipLine()

		case ILLEGAL:
			// Already reported by the lexer; just resynchronize.
			p.skipLine()

		case DATE:
			p.parseDated()

		case OPTION:
			p.parseOption()
		case INCLUDE:
			p.parseInclude()
		case PLUGIN:
			p.parsePlugin()
		case PUSHTAG:
			p.parsePushtag()
		case POPTAG:
			p.parsePoptag()

		default:
			p.fail(newSyntaxError(p.position(tok), "unexpected token %s", p.describe(tok)))
		}
	}

	p.builder.StoreResult(p.position(p.peek()), p.directives)
}

// parseDated dispatches a directive that begins with a date.
func (p *Parser) parseDated() {
	start := p.peek()
	pos := p.position(start)

	date, err := p.parseDate()
	if err != nil {
		p.fail(err)
		return
	}

	var directive ast.Directive

	tok := p.peek()
	switch tok.Type {
	case BALANCE:
		directive, err = p.parseBalance(pos, date)
	case OPEN:
		directive, err = p.parseOpen(pos, date)
	case CLOSE:
		directive, err = p.parseClose(pos, date)
	case COMMODITY:
		directive, err = p.parseCommodity(pos, date)
	case PAD:
		directive, err = p.parsePad(pos, date)
	case PRICE:
		directive, err = p.parsePrice(pos, date)
	case EVENT:
		directive, err = p.parseEvent(pos, date)
	case NOTE:
		directive, err = p.parseNote(pos, date)
	case DOCUMENT:
		directive, err = p.parseDocument(pos, date)
	case QUERY:
		directive, err = p.parseQuery(pos, date)
	case CUSTOM:
		directive, err = p.parseCustom(pos, date)
	case TXN, ASTERISK, HASH, FLAG:
		directive, err = p.parseTransaction(pos, date)
	case CURRENCY:
		// A single uppercase letter in the flag slot is a letter flag.
		if tok.Len() == 1 {
			directive, err = p.parseTransaction(pos, date)
		} else {
			err = p.expectedError(tok, "a directive keyword or transaction flag")
		}
	case ILLEGAL:
		// The lexer has already reported this token.
		p.skipLine()
		return
	default:
		err = p.expectedError(tok, "a directive keyword or transaction flag")
	}

	if err != nil {
		p.fail(err)
		return
	}

	p.directives = append(p.directives, directive)
}

// fail records a failed reduction through the builder and enters recovery:
// tokens are discarded through the next EOL, then shifting resumes.
func (p *Parser) fail(err error) {
	if serr, ok := err.(*syntaxError); ok {
		if !serr.reported {
			p.builder.Error(serr.pos, serr.kind, serr.msg)
		}
	} else {
		p.builder.Error(p.position(p.peek()), KindBuilder, err.Error())
	}

	// A reduction can fail after its line was fully consumed (a builder
	// rejecting a completed production); discarding would then eat the
	// following valid line.
	if p.pos > 0 && p.pos <= len(p.tokens) && p.tokens[p.pos-1].Type == EOL {
		return
	}
	p.skipLine()
}

// skipLine discards tokens up to and including the next EOL.
func (p *Parser) skipLine() {
	for !p.isAtEnd() {
		tok := p.advance()
		if tok.Type == EOL {
			return
		}
	}
}

// Token navigation.

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF, Line: p.lastLine()}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Type: EOF, Line: p.lastLine()}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 1
	}
	return p.tokens[len(p.tokens)-1].Line
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes a token of the given type or fails with an
// unexpected-token error.
func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return Token{Type: ILLEGAL}, p.expectedError(p.peek(), what)
}

// expectedError builds the unexpected-token message. With verbose error
// reporting enabled the message names what would have been accepted.
func (p *Parser) expectedError(tok Token, what string) error {
	if tok.Type == ILLEGAL {
		// The lexer reported this token when it emitted it.
		return &syntaxError{pos: p.position(tok), kind: KindLex, msg: "unscannable input", reported: true}
	}
	if p.verbose {
		return newSyntaxError(p.position(tok), "unexpected token %s, expected %s", p.describe(tok), what)
	}
	return newSyntaxError(p.position(tok), "unexpected token %s", p.describe(tok))
}

// describe renders a token for error messages: the token name plus the
// lexeme where it adds information.
func (p *Parser) describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of file"
	case EOL:
		return "end of line"
	case STRING, NUMBER, DATE, ACCOUNT, CURRENCY, TAG, LINK, KEY, BOOL, FLAG:
		return fmt.Sprintf("%s %q", tok.Type, tok.String(p.source))
	default:
		return fmt.Sprintf("%q", tok.Type.String())
	}
}

func (p *Parser) position(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}

func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) error {
	return newSyntaxError(p.position(tok), format, args...)
}

func (p *Parser) errorHere(format string, args ...interface{}) error {
	return p.errorAtToken(p.peek(), format, args...)
}

// unquote strips the surrounding quotes from a STRING lexeme and expands
// the \" \\ \n \t escapes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			buf.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case '"':
			buf.WriteByte('"')
		case '\\':
			buf.WriteByte('\\')
		default:
			buf.WriteByte('\\')
			buf.WriteByte(s[i])
		}
	}
	return buf.String()
}
