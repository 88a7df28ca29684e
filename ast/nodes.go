package ast

// Option sets a named configuration value. The parser records options
// verbatim and forwards them through the parse result; acting on them is the
// embedder's concern.
//
// Example:
//
//	option "title" "Personal Ledger"
//	option "operating_currency" "USD"
type Option struct {
	Pos   Position
	Name  string
	Value string
}

// Include requests that another ledger file be read in place. The parser
// only records the directive; resolution is the loader's responsibility.
//
// Example:
//
//	include "accounts.beancount"
type Include struct {
	Pos      Position
	Filename string
}

// Plugin names a processing plugin with an optional configuration string.
// Dispatch is out of the parser's hands; the record is forwarded as-is.
//
// Example:
//
//	plugin "beancount.plugins.auto_accounts"
//	plugin "beancount.plugins.check_commodity" "USD,EUR"
type Plugin struct {
	Pos    Position
	Name   string
	Config *string
}
