// Package printer renders parsed directives back to canonical ledger text.
// Printing then re-parsing a directive yields an equivalent directive:
// dates are rendered in ISO form, numbers as evaluated decimals, and
// metadata with its typed value syntax.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lialzmChina/beancount/ast"
	"github.com/lialzmChina/beancount/parser"
)

// Printer renders directives with postings aligned on a currency column.
type Printer struct {
	// CurrencyColumn is the column at which posting currencies start.
	// When zero, the column is derived per transaction from its widest
	// account/number pair.
	CurrencyColumn int

	// Indent is the posting indentation. Two spaces unless configured.
	Indent string
}

// Option configures a Printer.
type Option func(*Printer)

// WithCurrencyColumn fixes the column at which currencies are aligned.
func WithCurrencyColumn(col int) Option {
	return func(p *Printer) {
		p.CurrencyColumn = col
	}
}

// New creates a Printer.
func New(opts ...Option) *Printer {
	p := &Printer{Indent: "  "}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PrintResult renders a full parse result: options, plugins, and includes
// first, then every directive in source order, separated by blank lines.
func (p *Printer) PrintResult(w io.Writer, result *parser.Result) error {
	for _, opt := range result.Options {
		if _, err := fmt.Fprintf(w, "option %s %s\n", quote(opt.Name), quote(opt.Value)); err != nil {
			return err
		}
	}
	for _, plugin := range result.Plugins {
		line := "plugin " + quote(plugin.Name)
		if plugin.Config != nil {
			line += " " + quote(*plugin.Config)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, include := range result.Includes {
		if _, err := fmt.Fprintf(w, "include %s\n", quote(include.Filename)); err != nil {
			return err
		}
	}

	needSeparator := len(result.Options) > 0 || len(result.Plugins) > 0 || len(result.Includes) > 0
	for _, directive := range result.Directives {
		if needSeparator {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		needSeparator = true

		if err := p.PrintDirective(w, directive); err != nil {
			return err
		}
	}

	return nil
}

// PrintDirective renders one directive, including its metadata block.
func (p *Printer) PrintDirective(w io.Writer, directive ast.Directive) error {
	switch d := directive.(type) {
	case *ast.Transaction:
		return p.printTransaction(w, d)
	case *ast.Open:
		line := fmt.Sprintf("%s open %s", d.EntryDate, d.Account)
		if len(d.Currencies) > 0 {
			line += " " + strings.Join(d.Currencies, ",")
		}
		if d.Booking != "" {
			line += " " + quote(d.Booking)
		}
		return p.printSimple(w, line, metadataOf(d))
	case *ast.Close:
		return p.printSimple(w, fmt.Sprintf("%s close %s", d.EntryDate, d.Account), metadataOf(d))
	case *ast.Commodity:
		return p.printSimple(w, fmt.Sprintf("%s commodity %s", d.EntryDate, d.Currency), metadataOf(d))
	case *ast.Pad:
		return p.printSimple(w, fmt.Sprintf("%s pad %s %s", d.EntryDate, d.Account, d.SourceAccount), metadataOf(d))
	case *ast.Balance:
		line := fmt.Sprintf("%s balance %s  %s", d.EntryDate, d.Account, ast.FormatNumber(d.Amount.Number))
		if d.Tolerance != nil {
			line += " ~ " + ast.FormatNumber(*d.Tolerance)
		}
		line += " " + d.Amount.Currency
		return p.printSimple(w, line, metadataOf(d))
	case *ast.Price:
		return p.printSimple(w, fmt.Sprintf("%s price %s %s", d.EntryDate, d.Commodity, d.Amount), metadataOf(d))
	case *ast.Event:
		return p.printSimple(w, fmt.Sprintf("%s event %s %s", d.EntryDate, quote(d.Name), quote(d.Value)), metadataOf(d))
	case *ast.Note:
		return p.printSimple(w, fmt.Sprintf("%s note %s %s", d.EntryDate, d.Account, quote(d.Comment)), metadataOf(d))
	case *ast.Document:
		return p.printSimple(w, fmt.Sprintf("%s document %s %s", d.EntryDate, d.Account, quote(d.Path)), metadataOf(d))
	case *ast.Query:
		return p.printSimple(w, fmt.Sprintf("%s query %s %s", d.EntryDate, quote(d.Name), quote(d.Contents)), metadataOf(d))
	case *ast.Custom:
		line := fmt.Sprintf("%s custom %s", d.EntryDate, quote(d.Name))
		for _, value := range d.Values {
			line += " " + formatValue(value)
		}
		return p.printSimple(w, line, metadataOf(d))
	default:
		return fmt.Errorf("cannot print directive type %T", directive)
	}
}

// printSimple writes a one-line directive header plus its metadata block.
func (p *Printer) printSimple(w io.Writer, line string, meta []*ast.Metadata) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	return p.printMetadata(w, meta, p.Indent)
}

func (p *Printer) printTransaction(w io.Writer, txn *ast.Transaction) error {
	var head strings.Builder

	head.WriteString(txn.EntryDate.String())
	head.WriteByte(' ')
	head.WriteRune(txn.Flag)

	if txn.Payee != "" {
		head.WriteByte(' ')
		head.WriteString(quote(txn.Payee))
	}
	if txn.Narration != "" || txn.Payee != "" {
		head.WriteByte(' ')
		head.WriteString(quote(txn.Narration))
	}
	for _, tag := range txn.Tags {
		head.WriteString(" #")
		head.WriteString(string(tag))
	}
	for _, link := range txn.Links {
		head.WriteString(" ^")
		head.WriteString(string(link))
	}

	if _, err := fmt.Fprintln(w, head.String()); err != nil {
		return err
	}

	if err := p.printMetadata(w, metadataOf(txn), p.Indent); err != nil {
		return err
	}

	column := p.CurrencyColumn
	if column == 0 {
		column = p.deriveColumn(txn)
	}

	for _, posting := range txn.Postings {
		if err := p.printPosting(w, posting, column); err != nil {
			return err
		}
	}

	return nil
}

// deriveColumn finds the currency column that fits every posting of the
// transaction: widest prefix, two separating spaces, widest number.
func (p *Printer) deriveColumn(txn *ast.Transaction) int {
	column := 0
	for _, posting := range txn.Postings {
		width := runewidth.StringWidth(p.postingPrefix(posting)) + 2
		if posting.Units != nil {
			width += len(ast.FormatNumber(posting.Units.Number)) + 1
		}
		if width > column {
			column = width
		}
	}
	return column
}

func (p *Printer) postingPrefix(posting *ast.Posting) string {
	prefix := p.Indent
	if posting.Flag != 0 {
		prefix += string(posting.Flag) + " "
	}
	return prefix + string(posting.Account)
}

func (p *Printer) printPosting(w io.Writer, posting *ast.Posting, column int) error {
	line := p.postingPrefix(posting)

	if posting.Units != nil {
		number := ast.FormatNumber(posting.Units.Number)
		pad := column - runewidth.StringWidth(line) - len(number) - 1
		if pad < 2 {
			pad = 2
		}
		line += strings.Repeat(" ", pad) + number + " " + posting.Units.Currency

		if posting.Cost != nil {
			line += " " + formatCost(posting.Cost)
		}
		if posting.Price != nil {
			marker := "@"
			if posting.Price.Total {
				marker = "@@"
			}
			line += " " + marker + " " + posting.Price.Amount.String()
		}
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	return p.printMetadata(w, metadataOf(posting), p.Indent+p.Indent)
}

func formatCost(cost *ast.CostSpec) string {
	open, close := "{", "}"
	totalOnly := cost.NumberPer == nil && cost.NumberTotal != nil
	if totalOnly {
		open, close = "{{", "}}"
	}

	var comps []string

	switch {
	case totalOnly:
		comps = append(comps, ast.FormatNumber(*cost.NumberTotal)+" "+cost.Currency)
	case cost.NumberPer != nil:
		comp := ast.FormatNumber(*cost.NumberPer)
		if cost.NumberTotal != nil {
			comp += " # " + ast.FormatNumber(*cost.NumberTotal)
		}
		comps = append(comps, comp+" "+cost.Currency)
	case cost.Currency != "":
		comps = append(comps, cost.Currency)
	}

	if cost.Date != nil {
		comps = append(comps, cost.Date.String())
	}
	if cost.Label != "" {
		comps = append(comps, quote(cost.Label))
	}
	if cost.Merge {
		comps = append(comps, "*")
	}

	return open + strings.Join(comps, ", ") + close
}

func (p *Printer) printMetadata(w io.Writer, meta []*ast.Metadata, indent string) error {
	for _, kv := range meta {
		line := indent + kv.Key + ":"
		if !kv.Value.IsNone() {
			line += " " + formatValue(kv.Value)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders a metadata value with its source syntax, quoting
// strings so they re-parse to the same kind.
func formatValue(value *ast.MetadataValue) string {
	if value != nil && value.StringValue != nil {
		return quote(*value.StringValue)
	}
	return value.String()
}

// metadataOf pulls the metadata slice out of any node that carries one.
func metadataOf(node interface{ GetMetadata() []*ast.Metadata }) []*ast.Metadata {
	return node.GetMetadata()
}

var quoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

// quote renders a string literal with the escapes the lexer understands.
func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
