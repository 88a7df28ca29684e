package parser

import (
	"github.com/shopspring/decimal"

	"github.com/lialzmChina/beancount/ast"
)

// TxnFields accumulates the free-order fields of a transaction header:
// strings (payee/narration), tags, links, and the deprecated pipe
// separator.
type TxnFields struct {
	Strings []string
	Tags    []ast.Tag
	Links   []ast.Link
	Pipe    bool
}

// CompoundAmount is the per/total amount form appearing inside cost specs:
// "number currency", "number # number currency", or a bare "currency".
type CompoundAmount struct {
	Per      *decimal.Decimal
	Total    *decimal.Decimal
	Currency string
}

// CostComp is one component of a lot component list: exactly one field is
// meaningful.
type CostComp struct {
	Compound *CompoundAmount
	Date     *ast.Date
	Label    *string
	Merge    bool
}

// Builder is the capability set the grammar engine reduces into: one method
// per production. Method names and argument positions are the stable
// contract between the grammar and any backend; the tree-constructing
// TreeBuilder below is the reference implementation, but the engine accepts
// any Builder.
//
// Builder methods either return a node or signal failure with an error.
// On failure the engine abandons the reduction, records the error, and
// recovers at the next end of line; the parse itself continues.
type Builder interface {
	// Dated directive reductions.
	Open(pos ast.Position, date *ast.Date, account ast.Account, currencies []string, booking string, meta []*ast.Metadata) (ast.Directive, error)
	Close(pos ast.Position, date *ast.Date, account ast.Account, meta []*ast.Metadata) (ast.Directive, error)
	Commodity(pos ast.Position, date *ast.Date, currency string, meta []*ast.Metadata) (ast.Directive, error)
	Pad(pos ast.Position, date *ast.Date, account, source ast.Account, meta []*ast.Metadata) (ast.Directive, error)
	Balance(pos ast.Position, date *ast.Date, account ast.Account, amount *ast.Amount, tolerance *decimal.Decimal, meta []*ast.Metadata) (ast.Directive, error)
	Price(pos ast.Position, date *ast.Date, commodity string, amount *ast.Amount, meta []*ast.Metadata) (ast.Directive, error)
	Event(pos ast.Position, date *ast.Date, name, value string, meta []*ast.Metadata) (ast.Directive, error)
	Note(pos ast.Position, date *ast.Date, account ast.Account, comment string, meta []*ast.Metadata) (ast.Directive, error)
	Document(pos ast.Position, date *ast.Date, account ast.Account, path string, meta []*ast.Metadata) (ast.Directive, error)
	Query(pos ast.Position, date *ast.Date, name, contents string, meta []*ast.Metadata) (ast.Directive, error)
	Custom(pos ast.Position, date *ast.Date, name string, values []*ast.MetadataValue, meta []*ast.Metadata) (ast.Directive, error)
	Transaction(pos ast.Position, date *ast.Date, flag rune, fields *TxnFields, meta []*ast.Metadata, postings []*ast.Posting) (ast.Directive, error)
	Posting(pos ast.Position, flag rune, account ast.Account, units *ast.Amount, cost *ast.CostSpec, price *ast.PriceAnnotation, meta []*ast.Metadata) (*ast.Posting, error)

	// Sub-entity reductions.
	Amount(number decimal.Decimal, currency string) (*ast.Amount, error)
	CompoundAmount(per, total *decimal.Decimal, currency string) (*CompoundAmount, error)
	CostSpec(pos ast.Position, comps []CostComp, total bool) (*ast.CostSpec, error)
	KeyValue(key string, value *ast.MetadataValue) (*ast.Metadata, error)

	// Transaction header accumulator.
	TxnFieldsNew() *TxnFields
	TxnFieldString(fields *TxnFields, s string) error
	TxnFieldTag(fields *TxnFields, tag ast.Tag) error
	TxnFieldLink(fields *TxnFields, link ast.Link) error
	TxnFieldPipe(pos ast.Position, fields *TxnFields) error

	// Undated declarations.
	Option(pos ast.Position, name, value string) error
	Include(pos ast.Position, filename string) error
	Plugin(pos ast.Position, name string, config *string) error
	Pushtag(tag ast.Tag)
	Poptag(pos ast.Position, tag ast.Tag) error

	// Error records an accumulated parse error. The lexer reports lex
	// errors here as it emits ILLEGAL tokens; the engine reports grammar
	// and builder failures.
	Error(pos ast.Position, kind ErrorKind, message string)

	// StoreResult hands over the completed directive list once the
	// declaration loop reaches end of input.
	StoreResult(pos ast.Position, directives []ast.Directive)
}

// knownOptions are the option names the parser recognizes and forwards.
// Options are parsed, never acted upon here.
var knownOptions = map[string]bool{
	"title":                        true,
	"name_assets":                  true,
	"name_liabilities":             true,
	"name_equity":                  true,
	"name_income":                  true,
	"name_expenses":                true,
	"account_previous_balances":    true,
	"account_current_earnings":     true,
	"conversion_currency":          true,
	"inferred_tolerance_default":   true,
	"inferred_tolerance_multiplier": true,
	"infer_tolerance_from_cost":    true,
	"insert_pythonpath":            true,
	"render_commas":                true,
	"plugin_processing_mode":       true,
	"booking_method":               true,
	"operating_currency":           true,
}

// TreeBuilder is the reference Builder: it constructs the typed AST, owns
// the error accumulator and the tag context, and records the option,
// include, and plugin declarations.
type TreeBuilder struct {
	errs       errorList
	tags       TagContext
	directives []ast.Directive
	options    []*ast.Option
	optionMap  map[string]string
	includes   []*ast.Include
	plugins    []*ast.Plugin
}

var _ Builder = &TreeBuilder{}

// NewTreeBuilder creates an empty tree builder with its own tag context.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{optionMap: make(map[string]string)}
}

func (b *TreeBuilder) Open(pos ast.Position, date *ast.Date, account ast.Account, currencies []string, booking string, meta []*ast.Metadata) (ast.Directive, error) {
	open := &ast.Open{Pos: pos, EntryDate: date, Account: account, Currencies: currencies, Booking: booking}
	open.AddMetadata(meta...)
	return open, nil
}

func (b *TreeBuilder) Close(pos ast.Position, date *ast.Date, account ast.Account, meta []*ast.Metadata) (ast.Directive, error) {
	cl := &ast.Close{Pos: pos, EntryDate: date, Account: account}
	cl.AddMetadata(meta...)
	return cl, nil
}

func (b *TreeBuilder) Commodity(pos ast.Position, date *ast.Date, currency string, meta []*ast.Metadata) (ast.Directive, error) {
	c := &ast.Commodity{Pos: pos, EntryDate: date, Currency: currency}
	c.AddMetadata(meta...)
	return c, nil
}

func (b *TreeBuilder) Pad(pos ast.Position, date *ast.Date, account, source ast.Account, meta []*ast.Metadata) (ast.Directive, error) {
	pad := &ast.Pad{Pos: pos, EntryDate: date, Account: account, SourceAccount: source}
	pad.AddMetadata(meta...)
	return pad, nil
}

func (b *TreeBuilder) Balance(pos ast.Position, date *ast.Date, account ast.Account, amount *ast.Amount, tolerance *decimal.Decimal, meta []*ast.Metadata) (ast.Directive, error) {
	bal := &ast.Balance{Pos: pos, EntryDate: date, Account: account, Amount: amount, Tolerance: tolerance}
	bal.AddMetadata(meta...)
	return bal, nil
}

func (b *TreeBuilder) Price(pos ast.Position, date *ast.Date, commodity string, amount *ast.Amount, meta []*ast.Metadata) (ast.Directive, error) {
	price := &ast.Price{Pos: pos, EntryDate: date, Commodity: commodity, Amount: amount}
	price.AddMetadata(meta...)
	return price, nil
}

func (b *TreeBuilder) Event(pos ast.Position, date *ast.Date, name, value string, meta []*ast.Metadata) (ast.Directive, error) {
	ev := &ast.Event{Pos: pos, EntryDate: date, Name: name, Value: value}
	ev.AddMetadata(meta...)
	return ev, nil
}

func (b *TreeBuilder) Note(pos ast.Position, date *ast.Date, account ast.Account, comment string, meta []*ast.Metadata) (ast.Directive, error) {
	note := &ast.Note{Pos: pos, EntryDate: date, Account: account, Comment: comment}
	note.AddMetadata(meta...)
	return note, nil
}

func (b *TreeBuilder) Document(pos ast.Position, date *ast.Date, account ast.Account, path string, meta []*ast.Metadata) (ast.Directive, error) {
	doc := &ast.Document{Pos: pos, EntryDate: date, Account: account, Path: path}
	doc.AddMetadata(meta...)
	return doc, nil
}

func (b *TreeBuilder) Query(pos ast.Position, date *ast.Date, name, contents string, meta []*ast.Metadata) (ast.Directive, error) {
	q := &ast.Query{Pos: pos, EntryDate: date, Name: name, Contents: contents}
	q.AddMetadata(meta...)
	return q, nil
}

func (b *TreeBuilder) Custom(pos ast.Position, date *ast.Date, name string, values []*ast.MetadataValue, meta []*ast.Metadata) (ast.Directive, error) {
	c := &ast.Custom{Pos: pos, EntryDate: date, Name: name, Values: values}
	c.AddMetadata(meta...)
	return c, nil
}

// Transaction builds a transaction from its header fields and postings,
// merging the currently pushed tag context into the explicit tags.
func (b *TreeBuilder) Transaction(pos ast.Position, date *ast.Date, flag rune, fields *TxnFields, meta []*ast.Metadata, postings []*ast.Posting) (ast.Directive, error) {
	txn := &ast.Transaction{Pos: pos, EntryDate: date, Flag: flag, Postings: postings}

	switch len(fields.Strings) {
	case 0:
	case 1:
		txn.Narration = fields.Strings[0]
	case 2:
		txn.Payee = fields.Strings[0]
		txn.Narration = fields.Strings[1]
	default:
		return nil, newSyntaxError(pos, "too many strings on transaction (at most payee and narration)")
	}

	txn.Tags = mergeTags(fields.Tags, b.tags.Active())
	txn.Links = fields.Links
	txn.AddMetadata(meta...)

	return txn, nil
}

// mergeTags unions explicit tags with the pushed context, preserving the
// explicit order first and dropping duplicates.
func mergeTags(explicit, pushed []ast.Tag) []ast.Tag {
	if len(explicit) == 0 && len(pushed) == 0 {
		return nil
	}

	seen := make(map[ast.Tag]bool, len(explicit)+len(pushed))
	merged := make([]ast.Tag, 0, len(explicit)+len(pushed))
	for _, set := range [2][]ast.Tag{explicit, pushed} {
		for _, tag := range set {
			if !seen[tag] {
				seen[tag] = true
				merged = append(merged, tag)
			}
		}
	}
	return merged
}

func (b *TreeBuilder) Posting(pos ast.Position, flag rune, account ast.Account, units *ast.Amount, cost *ast.CostSpec, price *ast.PriceAnnotation, meta []*ast.Metadata) (*ast.Posting, error) {
	posting := &ast.Posting{Pos: pos, Flag: flag, Account: account, Units: units, Cost: cost, Price: price}
	posting.AddMetadata(meta...)
	return posting, nil
}

func (b *TreeBuilder) Amount(number decimal.Decimal, currency string) (*ast.Amount, error) {
	return &ast.Amount{Number: number, Currency: currency}, nil
}

func (b *TreeBuilder) CompoundAmount(per, total *decimal.Decimal, currency string) (*CompoundAmount, error) {
	return &CompoundAmount{Per: per, Total: total, Currency: currency}, nil
}

// CostSpec assembles a cost specification from its component list. When the
// same component kind appears more than once, the last write wins and a
// warning-class error is recorded.
func (b *TreeBuilder) CostSpec(pos ast.Position, comps []CostComp, total bool) (*ast.CostSpec, error) {
	spec := &ast.CostSpec{}

	for _, comp := range comps {
		switch {
		case comp.Merge:
			if spec.Merge {
				b.Error(pos, KindDeprecated, "duplicate merge marker in cost spec")
			}
			spec.Merge = true

		case comp.Date != nil:
			if spec.Date != nil {
				b.Error(pos, KindDeprecated, "duplicate date in cost spec; last value wins")
			}
			spec.Date = comp.Date

		case comp.Label != nil:
			if spec.Label != "" {
				b.Error(pos, KindDeprecated, "duplicate label in cost spec; last value wins")
			}
			spec.Label = *comp.Label

		case comp.Compound != nil:
			if spec.NumberPer != nil || spec.NumberTotal != nil || spec.Currency != "" {
				b.Error(pos, KindDeprecated, "duplicate amount in cost spec; last value wins")
				spec.NumberPer, spec.NumberTotal = nil, nil
			}
			if total {
				// Inside {{...}} a single number is a total cost.
				if comp.Compound.Total != nil {
					spec.NumberTotal = comp.Compound.Total
					spec.NumberPer = comp.Compound.Per
				} else {
					spec.NumberTotal = comp.Compound.Per
				}
			} else {
				spec.NumberPer = comp.Compound.Per
				spec.NumberTotal = comp.Compound.Total
			}
			spec.Currency = comp.Compound.Currency
		}
	}

	return spec, nil
}

func (b *TreeBuilder) KeyValue(key string, value *ast.MetadataValue) (*ast.Metadata, error) {
	return &ast.Metadata{Key: key, Value: value}, nil
}

func (b *TreeBuilder) TxnFieldsNew() *TxnFields {
	return &TxnFields{}
}

func (b *TreeBuilder) TxnFieldString(fields *TxnFields, s string) error {
	fields.Strings = append(fields.Strings, s)
	return nil
}

func (b *TreeBuilder) TxnFieldTag(fields *TxnFields, tag ast.Tag) error {
	fields.Tags = append(fields.Tags, tag)
	return nil
}

func (b *TreeBuilder) TxnFieldLink(fields *TxnFields, link ast.Link) error {
	fields.Links = append(fields.Links, link)
	return nil
}

// TxnFieldPipe accepts the legacy | separator between payee and narration
// and records it as deprecated.
func (b *TreeBuilder) TxnFieldPipe(pos ast.Position, fields *TxnFields) error {
	if !fields.Pipe {
		b.Error(pos, KindDeprecated, "pipe separator between payee and narration is deprecated")
	}
	fields.Pipe = true
	return nil
}

func (b *TreeBuilder) Option(pos ast.Position, name, value string) error {
	if !knownOptions[name] {
		return newSyntaxError(pos, "invalid option: %q", name)
	}
	b.options = append(b.options, &ast.Option{Pos: pos, Name: name, Value: value})
	b.optionMap[name] = value
	return nil
}

func (b *TreeBuilder) Include(pos ast.Position, filename string) error {
	b.includes = append(b.includes, &ast.Include{Pos: pos, Filename: filename})
	return nil
}

func (b *TreeBuilder) Plugin(pos ast.Position, name string, config *string) error {
	b.plugins = append(b.plugins, &ast.Plugin{Pos: pos, Name: name, Config: config})
	return nil
}

func (b *TreeBuilder) Pushtag(tag ast.Tag) {
	b.tags.Push(tag)
}

func (b *TreeBuilder) Poptag(pos ast.Position, tag ast.Tag) error {
	if !b.tags.Pop(tag) {
		return newSyntaxError(pos, "attempting to pop absent tag: #%s", tag)
	}
	return nil
}

func (b *TreeBuilder) Error(pos ast.Position, kind ErrorKind, message string) {
	b.errs.add(pos, kind, "%s", message)
}

// StoreResult receives the final directive list. Tags still pushed at end
// of input are unbalanced and recorded as errors.
func (b *TreeBuilder) StoreResult(pos ast.Position, directives []ast.Directive) {
	b.directives = directives

	for _, tag := range b.tags.Active() {
		b.errs.add(pos, KindGrammar, "unbalanced pushed tag: #%s", tag)
	}
}

// Errors returns the accumulated error records in detection order.
func (b *TreeBuilder) Errors() []*Error {
	return b.errs.errors
}
