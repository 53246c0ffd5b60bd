package pricing

import (
	"math"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dollar sign", "Bulk price: $12.50 per unit", "$12.50"},
		{"dollar word", "Now only 9.99 dollars each", "9.99 dollars"},
		{"no price", "Great product, no listed cost", ""},
		{"thousands separator", "Pallet of 40 for $1,299.99 shipped", "$1,299.99"},
		{"usd prefix", "Case pack USD 45.00 minimum order", "USD 45.00"},
		{"usd without space", "USD120", "USD120"},
		{"singular dollar", "just 1 Dollar", "1 Dollar"},
		{"price label", "Price: 75", "Price: 75"},
		{"price label lowercase", "lowest price 19.5 today", "price 19.5"},
		{"first match of family", "was $20 now $15", "$20"},
		{"dollar sign beats usd", "USD 30 or $25", "$25"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		price string
		want  float64
		ok    bool
	}{
		{"$10.00", 10, true},
		{"$1,299.99", 1299.99, true},
		{"9.99 dollars", 9.99, true},
		{"USD 45", 45, true},
		{"Price: $7.5", 7.5, true},
		{"$0.00", 0, true},
		{"garbage", 0, false},
		{"", 0, false},
		{"$.", 0, false},
		{"1.2.3", 1.2, true},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.price)
		if ok != tt.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.price, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Parse(%q) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s, ok := Summarize([]string{"$10.00", "$20.00", "garbage"})
	if !ok {
		t.Fatal("Expected a summary, got none")
	}
	if s.Min != 10 {
		t.Errorf("Expected min 10, got %v", s.Min)
	}
	if s.Max != 20 {
		t.Errorf("Expected max 20, got %v", s.Max)
	}
	if s.Mean != 15 {
		t.Errorf("Expected mean 15, got %v", s.Mean)
	}
	if s.Count != 2 {
		t.Errorf("Expected count 2, got %d", s.Count)
	}
}

func TestSummarize_SkipsAbsentPrices(t *testing.T) {
	s, ok := Summarize([]string{"", "$5", "", "9.99 dollars"})
	if !ok {
		t.Fatal("Expected a summary, got none")
	}
	if s.Count != 2 || s.Min != 5 || s.Max != 9.99 {
		t.Errorf("Unexpected summary: %+v", s)
	}
}

func TestSummarize_NoNumericPrices(t *testing.T) {
	if _, ok := Summarize([]string{"garbage", ""}); ok {
		t.Error("Expected no summary for unparseable prices")
	}
	if _, ok := Summarize(nil); ok {
		t.Error("Expected no summary for empty input")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15, "$15"},
		{1299.5, "$1,299.5"},
		{1234567.125, "$1,234,567.125"},
		{0.99, "$0.99"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatToken(t *testing.T) {
	if got := FormatToken("$1,299.50"); got != "$1,299.5" {
		t.Errorf("Expected '$1,299.5', got '%s'", got)
	}
	if got := FormatToken("Call for price"); got != "Call for price" {
		t.Errorf("Expected raw token for unparseable price, got '%s'", got)
	}
}
