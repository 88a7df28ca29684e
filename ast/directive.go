package ast

import "github.com/shopspring/decimal"

// WithMetadata is the interface for AST nodes that can carry metadata.
type WithMetadata interface {
	AddMetadata(...*Metadata)
	GetMetadata() []*Metadata
}

// withMetadata is an embeddable struct that implements WithMetadata.
type withMetadata struct {
	Metadata []*Metadata
}

func (w *withMetadata) AddMetadata(m ...*Metadata) {
	w.Metadata = append(w.Metadata, m...)
}

func (w *withMetadata) GetMetadata() []*Metadata {
	return w.Metadata
}

// Directive is the interface implemented by all dated ledger directives.
type Directive interface {
	WithMetadata

	Position() Position
	Date() *Date
	Directive() string
}

// Directives is an ordered sequence of directives. The parser emits them in
// source order and never reorders.
type Directives []Directive

// Open declares the opening of an account at a specific date, marking the
// beginning of its lifetime in the ledger. The account may be constrained to
// a set of currencies and may name a booking method (STRICT, NONE, AVERAGE,
// FIFO, LIFO) for lot tracking.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking USD
//	2014-05-01 open Assets:Investments:Brokerage USD,EUR "FIFO"
type Open struct {
	Pos        Position
	EntryDate  *Date
	Account    Account
	Currencies []string
	Booking    string

	withMetadata
}

var _ Directive = &Open{}

func (o *Open) Position() Position { return o.Pos }
func (o *Open) Date() *Date        { return o.EntryDate }
func (o *Open) Directive() string  { return "open" }

// Close declares the closing of an account, marking the end of its lifetime
// in the ledger.
//
// Example:
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	Pos       Position
	EntryDate *Date
	Account   Account

	withMetadata
}

var _ Directive = &Close{}

func (c *Close) Position() Position { return c.Pos }
func (c *Close) Date() *Date        { return c.EntryDate }
func (c *Close) Directive() string  { return "close" }

// Commodity declares a commodity or currency that can be used in the ledger.
// Optional, but commonly used to hang display metadata off a currency.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
type Commodity struct {
	Pos       Position
	EntryDate *Date
	Currency  string

	withMetadata
}

var _ Directive = &Commodity{}

func (c *Commodity) Position() Position { return c.Pos }
func (c *Commodity) Date() *Date        { return c.EntryDate }
func (c *Commodity) Directive() string  { return "commodity" }

// Pad requests an automatic transaction bringing an account to the balance
// asserted by the next balance directive, posted against SourceAccount.
//
// Example:
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	Pos           Position
	EntryDate     *Date
	Account       Account
	SourceAccount Account

	withMetadata
}

var _ Directive = &Pad{}

func (p *Pad) Position() Position { return p.Pos }
func (p *Pad) Date() *Date        { return p.EntryDate }
func (p *Pad) Directive() string  { return "pad" }

// Balance asserts that an account holds a specific balance at the beginning
// of the given date. An optional tolerance loosens the assertion:
//
//	2014-08-01 balance Assets:Checking  1234.00 ~ 0.02 USD
type Balance struct {
	Pos       Position
	EntryDate *Date
	Account   Account
	Amount    *Amount
	Tolerance *decimal.Decimal

	withMetadata
}

var _ Directive = &Balance{}

func (b *Balance) Position() Position { return b.Pos }
func (b *Balance) Date() *Date        { return b.EntryDate }
func (b *Balance) Directive() string  { return "balance" }

// Price declares the price of a commodity in terms of another currency at a
// specific date.
//
// Example:
//
//	2014-07-09 price USD 1.08 CAD
type Price struct {
	Pos       Position
	EntryDate *Date
	Commodity string
	Amount    *Amount

	withMetadata
}

var _ Directive = &Price{}

func (p *Price) Position() Position { return p.Pos }
func (p *Price) Date() *Date        { return p.EntryDate }
func (p *Price) Directive() string  { return "price" }

// Event records a named value at a specific date, tracking time-based state
// such as location or employer.
//
// Example:
//
//	2014-07-09 event "location" "New York, USA"
type Event struct {
	Pos       Position
	EntryDate *Date
	Name      string
	Value     string

	withMetadata
}

var _ Directive = &Event{}

func (e *Event) Position() Position { return e.Pos }
func (e *Event) Date() *Date        { return e.EntryDate }
func (e *Event) Directive() string  { return "event" }

// Note attaches a dated comment to an account.
//
// Example:
//
//	2014-07-09 note Assets:US:BofA:Checking "Called about direct deposit"
type Note struct {
	Pos       Position
	EntryDate *Date
	Account   Account
	Comment   string

	withMetadata
}

var _ Directive = &Note{}

func (n *Note) Position() Position { return n.Pos }
func (n *Note) Date() *Date        { return n.EntryDate }
func (n *Note) Directive() string  { return "note" }

// Document associates an external file with an account at a specific date.
//
// Example:
//
//	2014-07-09 document Assets:US:BofA:Checking "statements/2014-07.pdf"
type Document struct {
	Pos       Position
	EntryDate *Date
	Account   Account
	Path      string

	withMetadata
}

var _ Directive = &Document{}

func (d *Document) Position() Position { return d.Pos }
func (d *Document) Date() *Date        { return d.EntryDate }
func (d *Document) Directive() string  { return "document" }

// Query names a stored query whose contents downstream tooling may run
// against the ledger.
//
// Example:
//
//	2014-07-09 query "france-balances" "SELECT account, sum(position)"
type Query struct {
	Pos       Position
	EntryDate *Date
	Name      string
	Contents  string

	withMetadata
}

var _ Directive = &Query{}

func (q *Query) Position() Position { return q.Pos }
func (q *Query) Date() *Date        { return q.EntryDate }
func (q *Query) Directive() string  { return "query" }

// Custom is a prototype directive for plugin development, carrying arbitrary
// typed values after the directive name.
//
// Example:
//
//	2014-07-09 custom "budget" "monthly" TRUE 45.30 USD
type Custom struct {
	Pos       Position
	EntryDate *Date
	Name      string
	Values    []*MetadataValue

	withMetadata
}

var _ Directive = &Custom{}

func (c *Custom) Position() Position { return c.Pos }
func (c *Custom) Date() *Date        { return c.EntryDate }
func (c *Custom) Directive() string  { return "custom" }
