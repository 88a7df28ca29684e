package parser

import (
	"github.com/lialzmChina/beancount/ast"
	"github.com/shopspring/decimal"
)

// Transaction parsing: the only directive with an indentation-sensitive
// body. The header line carries the flag and free-order txn_fields; each
// indented line that follows is either a posting or a key_value. Metadata
// lines before the first posting annotate the transaction itself, later
// ones annotate the posting above them.

// parseTransaction parses:
//
//	DATE txn txn_fields EOL posting_or_kv_list
func (p *Parser) parseTransaction(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	flag, err := p.parseTxnFlag()
	if err != nil {
		return nil, err
	}

	fields := p.builder.TxnFieldsNew()

fieldsLoop:
	for {
		tok := p.peek()
		switch tok.Type {
		case STRING:
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			if err := p.builder.TxnFieldString(fields, s); err != nil {
				return nil, err
			}
		case TAG:
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			if err := p.builder.TxnFieldTag(fields, tag); err != nil {
				return nil, err
			}
		case LINK:
			link, err := p.parseLink()
			if err != nil {
				return nil, err
			}
			if err := p.builder.TxnFieldLink(fields, link); err != nil {
				return nil, err
			}
		case PIPE:
			p.advance()
			if err := p.builder.TxnFieldPipe(p.position(tok), fields); err != nil {
				return nil, err
			}
		default:
			break fieldsLoop
		}
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}

	var meta []*ast.Metadata
	var postings []*ast.Posting

	for p.check(INDENT) {
		la := p.peekAhead(1)

		switch la.Type {
		case KEY:
			p.advance() // INDENT
			kv, err := p.parseKeyValue()
			if err != nil {
				p.fail(err)
				continue
			}
			if len(postings) > 0 {
				postings[len(postings)-1].AddMetadata(kv)
			} else {
				meta = append(meta, kv)
			}

		case FLAG, ASTERISK, HASH, ACCOUNT:
			p.advance() // INDENT
			posting, err := p.parsePosting()
			if err != nil {
				p.fail(err)
				continue
			}
			postings = append(postings, posting)

		default:
			p.advance() // INDENT
			p.fail(p.expectedError(la, "a posting or a metadata key"))
		}
	}

	return p.builder.Transaction(pos, date, flag, fields, meta, postings)
}

// parseTxnFlag reduces the txn non-terminal: the txn keyword, one of the
// flag characters, or a single uppercase letter flag.
func (p *Parser) parseTxnFlag() (rune, error) {
	tok := p.peek()

	switch tok.Type {
	case TXN:
		p.advance()
		return '*', nil
	case ASTERISK:
		p.advance()
		return '*', nil
	case HASH:
		p.advance()
		return '#', nil
	case FLAG:
		p.advance()
		return rune(tok.Bytes(p.source)[0]), nil
	case CURRENCY:
		if tok.Len() == 1 {
			p.advance()
			return rune(tok.Bytes(p.source)[0]), nil
		}
	}

	return 0, p.expectedError(tok, "a transaction flag")
}

// parsePosting parses one posting line; the leading INDENT is already
// consumed:
//
//	[FLAG] ACCOUNT [number_expr CURRENCY [cost_spec] [price_annotation]] EOL
func (p *Parser) parsePosting() (*ast.Posting, error) {
	tok := p.peek()
	pos := p.position(tok)

	var flag rune
	switch tok.Type {
	case FLAG:
		p.advance()
		flag = rune(tok.Bytes(p.source)[0])
	case ASTERISK:
		p.advance()
		flag = '*'
	case HASH:
		p.advance()
		flag = '#'
	}

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	var units *ast.Amount
	var cost *ast.CostSpec
	var price *ast.PriceAnnotation

	if p.startsNumberExpr() {
		number, err := p.parseNumberExpr()
		if err != nil {
			return nil, err
		}
		currency, err := p.parseCurrency()
		if err != nil {
			return nil, err
		}
		units, err = p.builder.Amount(number, currency)
		if err != nil {
			return nil, err
		}

		if p.check(LCURL) || p.check(LCURLCURL) {
			cost, err = p.parseCostSpec()
			if err != nil {
				return nil, err
			}
		}

		if p.check(AT) || p.check(ATAT) {
			total := p.advance().Type == ATAT
			amount, err := p.parseAmount()
			if err != nil {
				return nil, err
			}
			price = &ast.PriceAnnotation{Amount: amount, Total: total}
		}
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}

	return p.builder.Posting(pos, flag, account, units, cost, price, nil)
}

// parseCostSpec parses a {...} (per-unit) or {{...}} (total) cost
// specification. Components are separated by commas; a slash separator is
// accepted for backward compatibility and recorded as deprecated.
func (p *Parser) parseCostSpec() (*ast.CostSpec, error) {
	open := p.advance()
	pos := p.position(open)

	total := open.Type == LCURLCURL
	closing := RCURL
	if total {
		closing = RCURLCURL
	}

	var comps []CostComp
	if !p.check(closing) {
		for {
			comp, err := p.parseLotComp()
			if err != nil {
				return nil, err
			}
			comps = append(comps, comp)

			if p.match(COMMA) {
				continue
			}
			if p.check(SLASH) {
				slash := p.advance()
				p.builder.Error(p.position(slash), KindDeprecated,
					"usage of slash as cost spec separator is deprecated")
				continue
			}
			break
		}
	}

	if _, err := p.expect(closing, closing.String()); err != nil {
		return nil, err
	}

	return p.builder.CostSpec(pos, comps, total)
}

// parseLotComp parses one lot component: a compound amount, a date, a
// string label, or the * merge marker.
func (p *Parser) parseLotComp() (CostComp, error) {
	tok := p.peek()

	switch tok.Type {
	case ASTERISK:
		p.advance()
		return CostComp{Merge: true}, nil

	case DATE:
		date, err := p.parseDate()
		if err != nil {
			return CostComp{}, err
		}
		return CostComp{Date: date}, nil

	case STRING:
		label, err := p.parseString()
		if err != nil {
			return CostComp{}, err
		}
		return CostComp{Label: &label}, nil

	case CURRENCY:
		currency, err := p.parseCurrency()
		if err != nil {
			return CostComp{}, err
		}
		compound, err := p.builder.CompoundAmount(nil, nil, currency)
		if err != nil {
			return CostComp{}, err
		}
		return CostComp{Compound: compound}, nil

	case NUMBER, LPAREN, MINUS:
		per, err := p.parseNumberExpr()
		if err != nil {
			return CostComp{}, err
		}

		var totalNum *decimal.Decimal
		if p.match(HASH) {
			t, err := p.parseNumberExpr()
			if err != nil {
				return CostComp{}, err
			}
			totalNum = &t
		}

		currency, err := p.parseCurrency()
		if err != nil {
			return CostComp{}, err
		}

		compound, err := p.builder.CompoundAmount(&per, totalNum, currency)
		if err != nil {
			return CostComp{}, err
		}
		return CostComp{Compound: compound}, nil

	default:
		return CostComp{}, p.expectedError(tok, "a cost component")
	}
}
