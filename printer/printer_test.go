package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lialzmChina/beancount/ast"
	"github.com/lialzmChina/beancount/parser"
)

// printResult parses source and renders it back to text.
func printResult(t *testing.T, source string) (*parser.Result, string) {
	t.Helper()

	result := parser.ParseString(context.Background(), "test.beancount", source)
	for _, err := range result.Errors {
		t.Logf("parse error: %v", err)
	}
	assert.True(t, result.Valid())

	var buf bytes.Buffer
	assert.NoError(t, New().PrintResult(&buf, result))
	return result, buf.String()
}

// Printing, re-parsing, and printing again must be a fixed point: the
// canonical text fully describes the directive.
func assertRoundTrip(t *testing.T, source string) {
	t.Helper()

	first, printed := printResult(t, source)
	second, reprinted := printResult(t, printed)

	assert.Equal(t, printed, reprinted)
	assert.Equal(t, len(first.Directives), len(second.Directives))
}

func TestPrinter_RoundTripTransaction(t *testing.T) {
	assertRoundTrip(t, `2014-03-01 * "Cafe Mogador" "Lamb tagine"
  Liabilities:CreditCard:CapitalOne  -37.45 USD
  Expenses:Restaurant
`)
}

func TestPrinter_RoundTripCostAndPrice(t *testing.T) {
	assertRoundTrip(t, `2014-05-05 * "Buy"
  Assets:Brokerage  10 HOOL {500.00 USD, 2014-04-01, "lot-A"}
  Assets:Euros  100 EUR @ 1.35 USD
  Assets:Total  100 EUR @@ 135.00 USD
  Assets:TotalCost  10 HOOL {{5000.00 USD}}
  Assets:Merge  10 HOOL {*}
  Assets:Cash
`)
}

func TestPrinter_RoundTripSimpleDirectives(t *testing.T) {
	assertRoundTrip(t, `option "title" "Ledger"
plugin "beancount.plugins.auto_accounts"
include "other.beancount"
2014-01-01 open Assets:Checking USD,EUR "STRICT"
2014-01-02 close Assets:Checking
2014-01-03 commodity HOOL
2014-01-04 pad Assets:Checking Equity:Opening-Balances
2014-01-05 balance Assets:Checking  100.00 ~ 0.01 USD
2014-01-06 price HOOL 520.00 USD
2014-01-07 event "location" "Boston"
2014-01-08 note Assets:Checking "called the bank"
2014-01-09 document Assets:Checking "statements/jan.pdf"
2014-01-10 query "cash" "SELECT 1"
2014-01-11 custom "budget" "monthly" TRUE 45.30 USD
`)
}

func TestPrinter_RoundTripMetadata(t *testing.T) {
	assertRoundTrip(t, `2014-01-01 open Assets:Checking
  institution: "BofA"
  opened: 2014-01-01
  cur: USD
  count: 42
  active: TRUE
2014-02-01 * "n"
  note: "header"
  Assets:Checking  1.00 USD
    confirmation: "CONF-1"
  Expenses:Other
`)
}

// Tags merged from the pushed context survive printing as explicit tags.
func TestPrinter_RoundTripPushedTags(t *testing.T) {
	source := `pushtag #travel
2014-06-01 * "Hotel"
  Expenses:Hotel  100 USD
  Assets:Cash
poptag #travel
`
	_, printed := printResult(t, source)

	reparsed := parser.ParseString(context.Background(), "test.beancount", printed)
	assert.True(t, reparsed.Valid())

	txn := reparsed.Directives[0].(*ast.Transaction)
	assert.Equal(t, []ast.Tag{"travel"}, txn.Tags)
}

func TestPrinter_PreservesWrittenDigits(t *testing.T) {
	_, printed := printResult(t, `2014-01-01 * "n"
  Assets:Cash  -5000.00 USD
  Expenses:Other
`)
	assert.Contains(t, printed, "-5000.00 USD")
}

func TestPrinter_EscapesStrings(t *testing.T) {
	result := parser.ParseString(context.Background(), "test.beancount",
		"2014-01-01 event \"name\" \"line\\nbreak \\\"quoted\\\"\"\n")
	assert.True(t, result.Valid())

	var buf bytes.Buffer
	assert.NoError(t, New().PrintResult(&buf, result))
	assert.Contains(t, buf.String(), `"line\nbreak \"quoted\""`)

	reparsed := parser.ParseString(context.Background(), "test.beancount", buf.String())
	assert.True(t, reparsed.Valid())
	event := reparsed.Directives[0].(*ast.Event)
	assert.Equal(t, "line\nbreak \"quoted\"", event.Value)
}

func TestPrinter_CurrencyColumn(t *testing.T) {
	result := parser.ParseString(context.Background(), "test.beancount", `2014-01-01 * "n"
  Assets:Cash  1.00 USD
  Expenses:Other
`)
	assert.True(t, result.Valid())

	var buf bytes.Buffer
	p := New(WithCurrencyColumn(40))
	assert.NoError(t, p.PrintResult(&buf, result))

	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	assert.True(t, bytes.Contains(lines[1], []byte("     1.00 USD")), "got %q", lines[1])
}
