package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Arithmetic over number literals, evaluated inside grammar reductions
// wherever a number is expected (amounts, costs, tolerances). Intermediate
// results are never user-visible; each reduction yields a fresh decimal.
//
// Operator precedence (low to high):
//  1. + -     (addition, subtraction)
//  2. * /     (multiplication, division)
//  3. unary -
//  4. ( )     (parentheses)
//
// All binary operators associate left. Division that cannot be represented
// exactly is carried to the parser's configured precision (default 28
// digits) using its rounding mode (default half-even).

// RoundingMode selects how inexact divisions are rounded.
type RoundingMode uint8

const (
	// RoundHalfEven rounds ties to the nearest even digit (banker's
	// rounding). This is the default.
	RoundHalfEven RoundingMode = iota

	// RoundHalfUp rounds ties away from zero.
	RoundHalfUp
)

// DefaultPrecision is the number of fractional digits carried by inexact
// divisions unless configured otherwise.
const DefaultPrecision = 28

// parseNumberExpr parses and evaluates an arithmetic expression. Entry
// point for every number_expr position in the grammar.
func (p *Parser) parseNumberExpr() (decimal.Decimal, error) {
	return p.parseAddSubtract()
}

func (p *Parser) parseAddSubtract() (decimal.Decimal, error) {
	left, err := p.parseMultiplyDivide()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != PLUS && op != MINUS {
			break
		}
		p.advance()

		right, err := p.parseMultiplyDivide()
		if err != nil {
			return decimal.Zero, err
		}

		switch op {
		case PLUS:
			left = left.Add(right)
		case MINUS:
			left = left.Sub(right)
		}
	}

	return left, nil
}

func (p *Parser) parseMultiplyDivide() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != ASTERISK && op != SLASH {
			break
		}
		opToken := p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}

		switch op {
		case ASTERISK:
			left = left.Mul(right)
		case SLASH:
			if right.IsZero() {
				return decimal.Zero, p.errorAtToken(opToken, "division by zero")
			}
			left = p.divide(left, right)
		}
	}

	return left, nil
}

// parseUnary handles unary minus, which binds tighter than * and /.
func (p *Parser) parseUnary() (decimal.Decimal, error) {
	if p.check(MINUS) {
		p.advance()
		value, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (decimal.Decimal, error) {
	tok := p.peek()

	switch tok.Type {
	case LPAREN:
		p.advance()
		result, err := p.parseNumberExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if !p.check(RPAREN) {
			return decimal.Zero, p.errorHere("expected ')' after expression")
		}
		p.advance()
		return result, nil

	case NUMBER:
		numTok := p.advance()
		return p.decimalFromToken(numTok)

	default:
		return decimal.Zero, p.errorAtToken(tok, "expected number or '(' in expression, got %s", tok.Type)
	}
}

// decimalFromToken materializes a NUMBER token, stripping thousands commas.
func (p *Parser) decimalFromToken(tok Token) (decimal.Decimal, error) {
	value := tok.String(p.source)
	if strings.IndexByte(value, ',') >= 0 {
		value = strings.ReplaceAll(value, ",", "")
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, p.errorAtToken(tok, "invalid number: %v", err)
	}
	return d, nil
}

// divide performs division carried to the configured precision. For
// half-even rounding, a quotient that is exact one digit past the precision
// is rounded with RoundBank; any other quotient cannot sit on a tie, so
// DivRound's half-up rounding gives the same result.
func (p *Parser) divide(a, b decimal.Decimal) decimal.Decimal {
	var q decimal.Decimal
	switch p.rounding {
	case RoundHalfUp:
		q = a.DivRound(b, p.precision)
	default:
		q = a.DivRound(b, p.precision+1)
		if q.Mul(b).Equal(a) {
			q = q.RoundBank(p.precision)
		} else {
			q = a.DivRound(b, p.precision)
		}
	}

	// Rounding rescales to the full precision; re-reading the trimmed
	// rendering keeps exact quotients free of trailing zeros.
	trimmed, err := decimal.NewFromString(q.String())
	if err != nil {
		return q
	}
	return trimmed
}

// startsNumberExpr reports whether the current token can begin a number
// expression.
func (p *Parser) startsNumberExpr() bool {
	switch p.peek().Type {
	case NUMBER, LPAREN, MINUS:
		return true
	default:
		return false
	}
}
