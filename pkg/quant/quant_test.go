package quant

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"0.32", "0.320004999", "0.320005001", "0.5", "0.999999", "1"}

	for _, in := range inputs {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		once := Normalize(d, DefaultPricePlaces)
		twice := Normalize(once, DefaultPricePlaces)
		if !once.Equal(twice) {
			t.Errorf("Normalize not idempotent for %s: %s vs %s", in, once, twice)
		}
	}
}

func TestNormalizeCollapsesNoise(t *testing.T) {
	a, _ := Parse("0.320001")
	b, _ := Parse("0.3200049")

	na := Normalize(a, DefaultPricePlaces)
	nb := Normalize(b, DefaultPricePlaces)
	if !na.Equal(nb) {
		t.Errorf("expected %s and %s to normalize to same key, got %s vs %s", a, b, na, nb)
	}
	if na.String() != "0.32" {
		t.Errorf("expected 0.32, got %s", na)
	}
}

func TestNormalizeRoundsHalfAway(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0.320004999", "0.32"},
		{"0.320005001", "0.32001"},
		{"0.320005", "0.32001"},
	}
	for _, c := range cases {
		d, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got := Normalize(d, DefaultPricePlaces).String(); got != c.want {
			t.Errorf("Normalize(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-number"); err == nil {
		t.Error("expected error for non-numeric string")
	}
	if _, err := Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestFormatting(t *testing.T) {
	cases := []struct {
		fn   func(decimal.Decimal) string
		in   string
		want string
	}{
		{Cents, "0.325", "32.5¢"},
		{Cents, "0.999", "99.9¢"},
		{Dollars, "128.4", "$128.4"},
		{Shares, "100.456", "100.46"},
		{Volume, "1250000", "$1.3M"},
		{Volume, "3400", "$3.4K"},
		{Volume, "56", "$56"},
	}

	for _, c := range cases {
		d, _ := Parse(c.in)
		if got := c.fn(d); got != c.want {
			t.Errorf("format(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}
