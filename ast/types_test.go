package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestValidAccount(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Assets:Cash", true},
		{"Assets:US:BofA:Checking", true},
		{"Liabilities:Credit-Card", true},
		{"Assets:2014-Bonus", true},
		{"Assets", false},
		{"assets:Cash", false},
		{"Assets:cash", false},
		{"Assets:", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAccount(tt.input))
		})
	}
}

func TestValidCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"USD", true},
		{"X", true},
		{"HOOL", true},
		{"AIRMILE-KM", true},
		{"V'T.X_2", true},
		{"usd", false},
		{"U-", false}, // must end with a letter or digit
		{"ABCDEFGHIJKLMNOPQRSTUVWXY", false}, // too long
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCurrency(tt.input))
		})
	}
}

func TestNewDate(t *testing.T) {
	iso, err := NewDate("2014-05-01")
	assert.NoError(t, err)
	assert.Equal(t, "2014-05-01", iso.String())

	slashed, err := NewDate("2014/05/01")
	assert.NoError(t, err)
	assert.Equal(t, "2014-05-01", slashed.String())
	assert.True(t, iso.Equal(slashed.Time))

	_, err = NewDate("2014-13-41")
	assert.Error(t, err)

	var nilDate *Date
	assert.True(t, nilDate.IsZero())
}

func TestAccountRoot(t *testing.T) {
	assert.Equal(t, "Assets", Account("Assets:US:Checking").Root())
	assert.Equal(t, "Equity", Account("Equity").Root())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"500.00", "500.00"},
		{"-37.45", "-37.45"},
		{"50", "50"},
		{"0.1000", "0.1000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.want, FormatNumber(d))
		})
	}
}

func TestMetadataValue(t *testing.T) {
	s := "text"
	tag := Tag("trip")
	number := decimal.RequireFromString("42.5")
	truthy := true

	tests := []struct {
		value *MetadataValue
		kind  string
		text  string
	}{
		{&MetadataValue{StringValue: &s}, "string", "text"},
		{&MetadataValue{Tag: &tag}, "tag", "#trip"},
		{&MetadataValue{Number: &number}, "number", "42.5"},
		{&MetadataValue{Boolean: &truthy}, "boolean", "TRUE"},
		{&MetadataValue{}, "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.text, tt.value.String())
		})
	}

	assert.True(t, (&MetadataValue{}).IsNone())
	assert.False(t, (&MetadataValue{StringValue: &s}).IsNone())
}

func TestAmountEqual(t *testing.T) {
	a := &Amount{Number: decimal.RequireFromString("10.00"), Currency: "USD"}
	b := &Amount{Number: decimal.RequireFromString("10"), Currency: "USD"}
	c := &Amount{Number: decimal.RequireFromString("10"), Currency: "EUR"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "10.00 USD", a.String())
}
