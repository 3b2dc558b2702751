package report

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when Options.Currency is empty.
const DefaultCurrency = "KRW"

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// FormatMoney renders amount in the currency's display format, rounded to
// its minor unit ("₩1,000,000").
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(0)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return formatWide(minor, cur.Formatter())
	}
	return money.New(minor.IntPart(), currency).Display()
}

// formatWide applies f to minor units that do not fit in int64.
func formatWide(minor decimal.Decimal, f *money.Formatter) string {
	sa := minor.Abs().String()

	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}

	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
