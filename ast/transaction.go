package ast

// Transaction records a financial transaction with a date, flag, optional
// payee, narration, and a list of postings. The flag indicates transaction
// status: '*' for cleared transactions, '!' for pending ones. Tags pushed
// onto the parse-wide tag context are merged into Tags when the transaction
// is built.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos       Position
	EntryDate *Date
	Flag      rune
	Payee     string
	Narration string
	Tags      []Tag
	Links     []Link
	Postings  []*Posting

	withMetadata
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position { return t.Pos }
func (t *Transaction) Date() *Date        { return t.EntryDate }
func (t *Transaction) Directive() string  { return "transaction" }

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag Tag) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Posting represents a single leg of a transaction: an account with optional
// units, cost spec, and price annotation. A posting without units is an
// interpolation placeholder whose amount a downstream engine infers.
//
// Example postings:
//
//	Assets:Brokerage    10 HOOL {500.00 USD}   ; with cost
//	Assets:Cash        200 EUR @ 1.35 USD      ; with price
//	Expenses:Groceries  45.60 USD              ; plain
//	Assets:Checking                            ; placeholder
type Posting struct {
	Pos     Position
	Flag    rune
	Account Account
	Units   *Amount
	Cost    *CostSpec
	Price   *PriceAnnotation

	withMetadata
}

// Interpolated reports whether the posting's amount is left for the
// downstream engine to infer.
func (p *Posting) Interpolated() bool {
	return p.Units == nil
}
