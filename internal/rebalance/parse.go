package rebalance

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultSeparator is the thousands grouping character ("1,000,000").
const DefaultSeparator = ','

// Parser reads operator-typed numbers. Only one fixed grouping separator is
// recognised; decimals and negative values are rejected.
type Parser struct {
	Separator rune
}

// NewParser returns a parser for the given grouping separator.
// A zero rune falls back to DefaultSeparator.
func NewParser(sep rune) Parser {
	if sep == 0 {
		sep = DefaultSeparator
	}
	return Parser{Separator: sep}
}

// ParseAmount parses s with the default separator.
func ParseAmount(s string) (int64, error) {
	return NewParser(DefaultSeparator).Amount(s)
}

// Amount parses a current-value field. Empty input maps to 0.
func (p Parser) Amount(s string) (int64, error) {
	sep := p.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(s), string(sep), "")
	if cleaned == "" {
		return 0, nil
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, &ParseError{Input: s, Reason: "not a whole number"}
		}
	}

	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "out of range"}
	}
	return v, nil
}

// Percent parses a target percentage field; the value must be in [0, 100].
func (p Parser) Percent(s string) (int, error) {
	v, err := p.Amount(s)
	if err != nil {
		return 0, err
	}
	if v > 100 {
		return 0, &ParseError{Input: s, Reason: "must be between 0 and 100"}
	}
	return int(v), nil
}

// Portfolio parses one value field per asset. A field that fails to parse
// yields a zero holding and a *ParseError; the remaining assets are kept.
// Assets without an entry in inputs are treated as empty input.
func (p Parser) Portfolio(assets []Asset, inputs map[Asset]string) (Portfolio, []error) {
	portfolio := make(Portfolio, 0, len(assets))
	var errs []error

	for _, asset := range assets {
		v, err := p.Amount(inputs[asset])
		if err != nil {
			errs = append(errs, withAsset(err, asset))
			v = 0
		}
		portfolio = append(portfolio, Holding{Asset: asset, Value: v})
	}

	return portfolio, errs
}

// Allocation parses one percentage field per asset, with the same
// per-asset recovery as Portfolio.
func (p Parser) Allocation(assets []Asset, inputs map[Asset]string) (Allocation, []error) {
	alloc := make(Allocation, 0, len(assets))
	var errs []error

	for _, asset := range assets {
		v, err := p.Percent(inputs[asset])
		if err != nil {
			errs = append(errs, withAsset(err, asset))
			v = 0
		}
		alloc = append(alloc, Weight{Asset: asset, Percent: v})
	}

	return alloc, errs
}

func withAsset(err error, asset Asset) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		tagged := *pe
		tagged.Asset = asset
		return &tagged
	}
	return err
}

// FormatAmount renders v with sep inserted every three digits. It is the
// inverse of Parser.Amount for non-negative values.
func FormatAmount(v int64, sep rune) string {
	if sep == 0 {
		sep = DefaultSeparator
	}
	neg := v < 0
	digits := strconv.FormatInt(v, 10)
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}
