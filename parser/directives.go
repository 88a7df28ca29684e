package parser

import (
	"github.com/shopspring/decimal"

	"github.com/lialzmChina/beancount/ast"
)

// Productions for all non-transaction directives, plus the shared literal
// and key-value helpers they are built from.

// parseDate consumes a DATE token and builds the canonical date.
func (p *Parser) parseDate() (*ast.Date, error) {
	tok, err := p.expect(DATE, "a date")
	if err != nil {
		return nil, err
	}

	date, derr := ast.NewDate(tok.String(p.source))
	if derr != nil {
		return nil, &syntaxError{pos: p.position(tok), kind: KindLex, msg: derr.Error()}
	}
	return date, nil
}

// parseAccount consumes an ACCOUNT token; the name is interned.
func (p *Parser) parseAccount() (ast.Account, error) {
	tok, err := p.expect(ACCOUNT, "an account")
	if err != nil {
		return "", err
	}
	return ast.Account(p.interner.InternBytes(tok.Bytes(p.source))), nil
}

// parseCurrency consumes a CURRENCY token; the code is interned.
func (p *Parser) parseCurrency() (string, error) {
	tok, err := p.expect(CURRENCY, "a currency")
	if err != nil {
		return "", err
	}
	return p.interner.InternBytes(tok.Bytes(p.source)), nil
}

// parseString consumes a STRING token and unquotes it.
func (p *Parser) parseString() (string, error) {
	tok, err := p.expect(STRING, "a string")
	if err != nil {
		return "", err
	}
	return unquote(tok.String(p.source)), nil
}

// parseTag consumes a TAG token and strips the # prefix.
func (p *Parser) parseTag() (ast.Tag, error) {
	tok, err := p.expect(TAG, "a tag")
	if err != nil {
		return "", err
	}
	return ast.Tag(tok.String(p.source)[1:]), nil
}

// parseLink consumes a LINK token and strips the ^ prefix.
func (p *Parser) parseLink() (ast.Link, error) {
	tok, err := p.expect(LINK, "a link")
	if err != nil {
		return "", err
	}
	return ast.Link(tok.String(p.source)[1:]), nil
}

// parseAmount parses: number_expr CURRENCY.
func (p *Parser) parseAmount() (*ast.Amount, error) {
	number, err := p.parseNumberExpr()
	if err != nil {
		return nil, err
	}

	currency, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}

	return p.builder.Amount(number, currency)
}

// parseAmountWithTolerance parses: number_expr [~ number_expr] CURRENCY.
// Used by balance assertions.
func (p *Parser) parseAmountWithTolerance() (*ast.Amount, *decimal.Decimal, error) {
	number, err := p.parseNumberExpr()
	if err != nil {
		return nil, nil, err
	}

	var tolerance *decimal.Decimal
	if p.match(TILDE) {
		tol, err := p.parseNumberExpr()
		if err != nil {
			return nil, nil, err
		}
		tolerance = &tol
	}

	currency, err := p.parseCurrency()
	if err != nil {
		return nil, nil, err
	}

	amount, err := p.builder.Amount(number, currency)
	if err != nil {
		return nil, nil, err
	}
	return amount, tolerance, nil
}

// parseEOL consumes the end of the current logical line.
func (p *Parser) parseEOL() error {
	_, err := p.expect(EOL, "end of line")
	return err
}

// parseKeyValueBlock consumes the indented key_value lines that follow a
// directive header. The block ends at the first line that is not an
// indented key_value.
func (p *Parser) parseKeyValueBlock() []*ast.Metadata {
	var meta []*ast.Metadata

	for p.check(INDENT) && p.peekAhead(1).Type == KEY {
		p.advance() // INDENT

		kv, err := p.parseKeyValue()
		if err != nil {
			p.fail(err)
			continue
		}
		meta = append(meta, kv)
	}

	return meta
}

// parseKeyValue parses one metadata line: KEY value? EOL. The KEY lexeme
// carries its trailing colon.
func (p *Parser) parseKeyValue() (*ast.Metadata, error) {
	keyTok, err := p.expect(KEY, "a metadata key")
	if err != nil {
		return nil, err
	}
	key := keyTok.String(p.source)
	key = key[:len(key)-1]

	value, err := p.parseMetadataValue()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}

	return p.builder.KeyValue(key, value)
}

// parseMetadataValue parses one of the polymorphic metadata value kinds:
// string, account, date, currency, tag, number, amount, bool, or none.
func (p *Parser) parseMetadataValue() (*ast.MetadataValue, error) {
	tok := p.peek()

	switch tok.Type {
	case EOL:
		return &ast.MetadataValue{}, nil

	case STRING:
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return &ast.MetadataValue{StringValue: &s}, nil

	case DATE:
		date, err := p.parseDate()
		if err != nil {
			return nil, err
		}
		return &ast.MetadataValue{Date: date}, nil

	case ACCOUNT:
		account, err := p.parseAccount()
		if err != nil {
			return nil, err
		}
		return &ast.MetadataValue{Account: &account}, nil

	case CURRENCY:
		currency, err := p.parseCurrency()
		if err != nil {
			return nil, err
		}
		return &ast.MetadataValue{Currency: &currency}, nil

	case BOOL:
		p.advance()
		value := tok.String(p.source) == "TRUE"
		return &ast.MetadataValue{Boolean: &value}, nil

	case TAG:
		tag, err := p.parseTag()
		if err != nil {
			return nil, err
		}
		return &ast.MetadataValue{Tag: &tag}, nil

	case NUMBER, LPAREN, MINUS:
		number, err := p.parseNumberExpr()
		if err != nil {
			return nil, err
		}
		if p.check(CURRENCY) {
			currency, err := p.parseCurrency()
			if err != nil {
				return nil, err
			}
			amount, err := p.builder.Amount(number, currency)
			if err != nil {
				return nil, err
			}
			return &ast.MetadataValue{Amount: amount}, nil
		}
		return &ast.MetadataValue{Number: &number}, nil

	default:
		return nil, p.expectedError(tok, "a metadata value")
	}
}

// parseBalance parses: DATE balance ACCOUNT amount_tolerance EOL key_value_list
func (p *Parser) parseBalance(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // balance

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	amount, tolerance, err := p.parseAmountWithTolerance()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Balance(pos, date, account, amount, tolerance, meta)
}

// parseOpen parses: DATE open ACCOUNT currency_list opt_booking EOL key_value_list
func (p *Parser) parseOpen(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // open

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	var currencies []string
	if p.check(CURRENCY) {
		currency, err := p.parseCurrency()
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, currency)

		for p.match(COMMA) {
			currency, err := p.parseCurrency()
			if err != nil {
				return nil, err
			}
			currencies = append(currencies, currency)
		}
	}

	booking := ""
	if p.check(STRING) {
		booking, err = p.parseString()
		if err != nil {
			return nil, err
		}
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Open(pos, date, account, currencies, booking, meta)
}

// parseClose parses: DATE close ACCOUNT EOL key_value_list
func (p *Parser) parseClose(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // close

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Close(pos, date, account, meta)
}

// parseCommodity parses: DATE commodity CURRENCY EOL key_value_list
func (p *Parser) parseCommodity(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // commodity

	currency, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Commodity(pos, date, currency, meta)
}

// parsePad parses: DATE pad ACCOUNT ACCOUNT EOL key_value_list
func (p *Parser) parsePad(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // pad

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	source, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Pad(pos, date, account, source, meta)
}

// parsePrice parses: DATE price CURRENCY amount EOL key_value_list
func (p *Parser) parsePrice(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // price

	commodity, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Price(pos, date, commodity, amount, meta)
}

// parseEvent parses: DATE event STRING STRING EOL key_value_list
func (p *Parser) parseEvent(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // event

	name, err := p.parseString()
	if err != nil {
		return nil, err
	}

	value, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Event(pos, date, name, value, meta)
}

// parseNote parses: DATE note ACCOUNT STRING EOL key_value_list
func (p *Parser) parseNote(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // note

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	comment, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Note(pos, date, account, comment, meta)
}

// parseDocument parses: DATE document ACCOUNT STRING EOL key_value_list
func (p *Parser) parseDocument(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // document

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	path, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Document(pos, date, account, path, meta)
}

// parseQuery parses: DATE query STRING STRING EOL key_value_list
func (p *Parser) parseQuery(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // query

	name, err := p.parseString()
	if err != nil {
		return nil, err
	}

	contents, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Query(pos, date, name, contents, meta)
}

// parseCustom parses: DATE custom STRING value* EOL key_value_list
func (p *Parser) parseCustom(pos ast.Position, date *ast.Date) (ast.Directive, error) {
	p.advance() // custom

	name, err := p.parseString()
	if err != nil {
		return nil, err
	}

	var values []*ast.MetadataValue
	for !p.check(EOL) && !p.isAtEnd() {
		value, err := p.parseMetadataValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if err := p.parseEOL(); err != nil {
		return nil, err
	}
	meta := p.parseKeyValueBlock()

	return p.builder.Custom(pos, date, name, values, meta)
}

// parseOption parses: option STRING STRING EOL
func (p *Parser) parseOption() {
	pos := p.position(p.peek())
	p.advance() // option

	name, err := p.parseString()
	if err != nil {
		p.fail(err)
		return
	}

	value, err := p.parseString()
	if err != nil {
		p.fail(err)
		return
	}

	if err := p.parseEOL(); err != nil {
		p.fail(err)
		return
	}

	if err := p.builder.Option(pos, name, value); err != nil {
		p.fail(err)
	}
}

// parseInclude parses: include STRING EOL
func (p *Parser) parseInclude() {
	pos := p.position(p.peek())
	p.advance() // include

	filename, err := p.parseString()
	if err != nil {
		p.fail(err)
		return
	}

	if err := p.parseEOL(); err != nil {
		p.fail(err)
		return
	}

	if err := p.builder.Include(pos, filename); err != nil {
		p.fail(err)
	}
}

// parsePlugin parses: plugin STRING [STRING] EOL
func (p *Parser) parsePlugin() {
	pos := p.position(p.peek())
	p.advance() // plugin

	name, err := p.parseString()
	if err != nil {
		p.fail(err)
		return
	}

	var config *string
	if p.check(STRING) {
		c, err := p.parseString()
		if err != nil {
			p.fail(err)
			return
		}
		config = &c
	}

	if err := p.parseEOL(); err != nil {
		p.fail(err)
		return
	}

	if err := p.builder.Plugin(pos, name, config); err != nil {
		p.fail(err)
	}
}

// parsePushtag parses: pushtag TAG EOL
func (p *Parser) parsePushtag() {
	p.advance() // pushtag

	tag, err := p.parseTag()
	if err != nil {
		p.fail(err)
		return
	}

	if err := p.parseEOL(); err != nil {
		p.fail(err)
		return
	}

	p.builder.Pushtag(tag)
}

// parsePoptag parses: poptag TAG EOL
func (p *Parser) parsePoptag() {
	pos := p.position(p.peek())
	p.advance() // poptag

	tag, err := p.parseTag()
	if err != nil {
		p.fail(err)
		return
	}

	if err := p.parseEOL(); err != nil {
		p.fail(err)
		return
	}

	if err := p.builder.Poptag(pos, tag); err != nil {
		p.fail(err)
	}
}
