package rebalance

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1,234,567", 1234567, false},
		{"", 0, false},
		{"   ", 0, false},
		{"1000000", 1000000, false},
		{" 1,000 ", 1000, false},
		{",", 0, false},
		{"12a34", 0, true},
		{"1.5", 0, true},
		{"-100", 0, true},
		{"+100", 0, true},
		{"1 000", 0, true},
		{"9,223,372,036,854,775,807", 9223372036854775807, false},
		{"9,223,372,036,854,775,808", 0, true}, // int64 overflow
		{"99,999,999,999,999,999,999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("ParseAmount(%q) error = %v, want *ParseError", tt.input, err)
				}
				if pe.Input != tt.input {
					t.Errorf("ParseError.Input = %q, want %q", pe.Input, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParser_CustomSeparator(t *testing.T) {
	p := NewParser('.')

	got, err := p.Amount("1.000.000")
	if err != nil {
		t.Fatalf("Amount() error = %v", err)
	}
	if got != 1000000 {
		t.Errorf("Amount() = %d, want 1000000", got)
	}

	// the default separator is no longer stripped
	if _, err := p.Amount("1,000"); err == nil {
		t.Error("expected error for ',' with '.' separator")
	}
}

func TestNewParser_ZeroSeparator(t *testing.T) {
	if p := NewParser(0); p.Separator != DefaultSeparator {
		t.Errorf("NewParser(0).Separator = %q, want %q", p.Separator, DefaultSeparator)
	}
	// zero value Parser behaves like the default one
	var p Parser
	if v, err := p.Amount("2,500"); err != nil || v != 2500 {
		t.Errorf("Parser{}.Amount(\"2,500\") = %d, %v", v, err)
	}
}

func TestParser_Percent(t *testing.T) {
	p := NewParser(DefaultSeparator)

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"25", 25, false},
		{"0", 0, false},
		{"100", 100, false},
		{"", 0, false},
		{"101", 0, true},
		{"2.5", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := p.Percent(tt.input)
		if tt.wantErr && err == nil {
			t.Errorf("Percent(%q) expected error, got %d", tt.input, got)
		}
		if !tt.wantErr && (err != nil || got != tt.want) {
			t.Errorf("Percent(%q) = %d, %v, want %d", tt.input, got, err, tt.want)
		}
	}
}

func TestParser_Portfolio(t *testing.T) {
	assets := []Asset{"주식", "채권", "ETF"}
	inputs := map[Asset]string{
		"주식":  "1,000,000",
		"채권":  "12a34",
		"ETF": "500,000",
	}

	portfolio, errs := NewParser(',').Portfolio(assets, inputs)

	if len(portfolio) != 3 {
		t.Fatalf("len(portfolio) = %d, want 3", len(portfolio))
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}

	var pe *ParseError
	if !errors.As(errs[0], &pe) || pe.Asset != "채권" {
		t.Errorf("errs[0] = %v, want ParseError for 채권", errs[0])
	}

	want := Portfolio{{"주식", 1000000}, {"채권", 0}, {"ETF", 500000}}
	for i := range want {
		if portfolio[i] != want[i] {
			t.Errorf("portfolio[%d] = %+v, want %+v", i, portfolio[i], want[i])
		}
	}
}

func TestParser_AllocationMissingInput(t *testing.T) {
	alloc, errs := NewParser(',').Allocation([]Asset{"A", "B"}, map[Asset]string{"A": "100"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if alloc.Sum() != 100 || alloc[1].Percent != 0 {
		t.Errorf("Allocation() = %+v", alloc)
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Asset: "현금", Input: "x", Reason: "not a whole number"}
	want := `현금: cannot parse "x": not a whole number`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    int64
		sep  rune
		want string
	}{
		{0, ',', "0"},
		{999, ',', "999"},
		{1000, ',', "1,000"},
		{1000000, ',', "1,000,000"},
		{123456789, '.', "123.456.789"},
		{-2500, ',', "-2,500"},
		{42, 0, "42"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.v, tt.sep); got != tt.want {
			t.Errorf("FormatAmount(%d, %q) = %q, want %q", tt.v, tt.sep, got, tt.want)
		}
	}

	// round trip through the parser
	p := NewParser('.')
	if v, err := p.Amount(FormatAmount(7654321, '.')); err != nil || v != 7654321 {
		t.Errorf("round trip = %d, %v", v, err)
	}
}
