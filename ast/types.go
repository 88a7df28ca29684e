package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount represents a numerical value with its associated currency or
// commodity symbol. The number is an arbitrary-precision decimal that
// preserves the fractional digits as written in the source.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// FormatNumber renders a decimal with the fractional digits it carries:
// a number written "500.00" stays "500.00", not "500".
func FormatNumber(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// String renders the amount the way it appears in a ledger file.
func (a *Amount) String() string {
	return FormatNumber(a.Number) + " " + a.Currency
}

// Equal reports whether two amounts carry the same value and currency.
func (a *Amount) Equal(other *Amount) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Currency == other.Currency && a.Number.Equal(other.Number)
}

// CostSpec describes the lot attributes attached to a posting between curly
// braces. A single-brace spec {...} gives a per-unit cost, a double-brace
// spec {{...}} a total cost. Any of the components may be omitted; {} selects
// any lot and {*} requests merging all lots together.
//
// Example cost specifications:
//
//	10 HOOL {500.00 USD}                      ; Per-unit cost
//	10 HOOL {500.00 USD, 2014-04-01, "lot-A"} ; With acquisition date and label
//	10 HOOL {{5000.00 USD}}                   ; Total cost
//	10 HOOL {}                                ; Any lot
//	10 HOOL {*}                               ; Merge all lots
type CostSpec struct {
	NumberPer   *decimal.Decimal
	NumberTotal *decimal.Decimal
	Currency    string
	Date        *Date
	Label       string
	Merge       bool
}

// IsEmpty reports whether this is an empty cost specification {}.
// Distinguishes between nil (no cost) and empty cost (any lot selection).
func (c *CostSpec) IsEmpty() bool {
	return c != nil && !c.Merge && c.NumberPer == nil && c.NumberTotal == nil &&
		c.Currency == "" && c.Date == nil && c.Label == ""
}

// PriceAnnotation is the @ or @@ conversion attached to a posting.
// Total reports whether the annotation used @@ (total price) rather
// than @ (per-unit price).
type PriceAnnotation struct {
	Amount *Amount
	Total  bool
}

// Account represents a Beancount account name consisting of at least two
// colon-separated segments. The first segment is conventionally one of the
// five root classes (Assets, Liabilities, Equity, Income, Expenses); the
// parser records it as written and leaves enforcement to semantic layers.
//
// Example accounts:
//
//	Assets:US:BofA:Checking
//	Liabilities:CreditCard:CapitalOne
type Account string

// Root returns the first segment of the account name.
func (a Account) Root() string {
	if i := strings.IndexByte(string(a), ':'); i >= 0 {
		return string(a)[:i]
	}
	return string(a)
}

// accountRegex matches a full account name: an uppercase-led first segment
// followed by one or more colon-separated segments.
var accountRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9\-]*(:[A-Z0-9][A-Za-z0-9\-]*)+$`)

// ValidAccount reports whether s has the lexical shape of an account name.
func ValidAccount(s string) bool {
	return accountRegex.MatchString(s)
}

// currencyRegex matches a currency code of two or more characters. A single
// uppercase letter is also a valid currency and is checked separately.
var currencyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9'._-]{0,22}[A-Z0-9]$`)

// ValidCurrency reports whether s has the lexical shape of a currency code.
func ValidCurrency(s string) bool {
	if len(s) == 1 {
		return s[0] >= 'A' && s[0] <= 'Z'
	}
	return currencyRegex.MatchString(s)
}

// Date represents a calendar date. Both YYYY-MM-DD and YYYY/MM/DD are
// accepted in source files; dates are stored canonically and render in
// ISO 8601 form.
type Date struct {
	time.Time
}

// NewDate parses a date literal in either separator style.
func NewDate(s string) (*Date, error) {
	layout := "2006-01-02"
	if strings.IndexByte(s, '/') >= 0 {
		layout = "2006/01/02"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &Date{Time: t}, nil
}

// String renders the date canonically.
func (d *Date) String() string {
	return d.Format("2006-01-02")
}

// IsZero returns true if the Date is nil or represents the zero time.
// Nil-safe so that reflection-based helpers can probe zero values.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Tag represents a hashtag starting with #, used to categorize and filter
// transactions. The stored value carries no # prefix.
type Tag string

// Link represents a reference link starting with ^, used to connect related
// transactions together. The stored value carries no ^ prefix.
type Link string

// MetadataValue is the polymorphic value of a metadata entry. Exactly one of
// the pointer fields is non-nil; a value with no field set represents an
// empty (none) value.
//
// Example metadata with different value kinds:
//
//	invoice: "INV-2024-001"           ; String
//	trip-start: 2024-01-15            ; Date
//	linked-account: Assets:Checking   ; Account
//	target-currency: USD              ; Currency
//	category: #vacation               ; Tag
//	quantity: 42                      ; Number
//	budget: 1000.00 USD               ; Amount
//	active: TRUE                      ; Boolean
//	placeholder:                      ; None
type MetadataValue struct {
	StringValue *string
	Date        *Date
	Account     *Account
	Currency    *string
	Tag         *Tag
	Number      *decimal.Decimal
	Amount      *Amount
	Boolean     *bool
}

// IsNone reports whether the value is the empty kind.
func (m *MetadataValue) IsNone() bool {
	return m == nil || (m.StringValue == nil && m.Date == nil && m.Account == nil &&
		m.Currency == nil && m.Tag == nil && m.Number == nil && m.Amount == nil && m.Boolean == nil)
}

// Kind returns the name of the value's kind.
func (m *MetadataValue) Kind() string {
	switch {
	case m == nil:
		return "none"
	case m.StringValue != nil:
		return "string"
	case m.Date != nil:
		return "date"
	case m.Account != nil:
		return "account"
	case m.Currency != nil:
		return "currency"
	case m.Tag != nil:
		return "tag"
	case m.Number != nil:
		return "number"
	case m.Amount != nil:
		return "amount"
	case m.Boolean != nil:
		return "boolean"
	default:
		return "none"
	}
}

// String returns the value as it would appear in a ledger file.
func (m *MetadataValue) String() string {
	switch {
	case m == nil:
		return ""
	case m.StringValue != nil:
		return *m.StringValue
	case m.Date != nil:
		return m.Date.String()
	case m.Account != nil:
		return string(*m.Account)
	case m.Currency != nil:
		return *m.Currency
	case m.Tag != nil:
		return "#" + string(*m.Tag)
	case m.Number != nil:
		return FormatNumber(*m.Number)
	case m.Amount != nil:
		return m.Amount.String()
	case m.Boolean != nil:
		if *m.Boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Metadata represents a key-value pair attached to a directive or posting.
// Metadata entries are indented on lines immediately following the element
// they annotate.
//
// Example:
//
//	2014-05-05 * "Payment"
//	  invoice: "INV-2014-05-001"
//	  Assets:Checking  -100.00 USD
//	    confirmation: "CONF123456"
//	  Expenses:Services
type Metadata struct {
	Key   string
	Value *MetadataValue
}
