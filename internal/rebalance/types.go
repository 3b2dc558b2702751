package rebalance

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// Asset identifies a portfolio bucket (주식, 채권, ETF, 현금, ...).
type Asset string

// Holding is the current value of one asset, in whole won.
type Holding struct {
	Asset Asset `json:"asset" msgpack:"asset"`
	Value int64 `json:"value" msgpack:"value"`
}

// Portfolio lists current holdings in display order.
type Portfolio []Holding

// Total returns the sum of all current values. Each value fits in int64,
// the sum may not.
func (p Portfolio) Total() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p {
		total = total.Add(decimal.NewFromInt(h.Value))
	}
	return total
}

// Assets returns the asset labels in order.
func (p Portfolio) Assets() []Asset {
	assets := make([]Asset, len(p))
	for i, h := range p {
		assets[i] = h.Asset
	}
	return assets
}

// Weight is a raw target percentage for one asset.
type Weight struct {
	Asset   Asset `json:"asset" msgpack:"asset"`
	Percent int   `json:"percent" msgpack:"percent"`
}

// Allocation lists raw target percentages in display order.
type Allocation []Weight

// Sum returns the sum of raw percentages.
func (a Allocation) Sum() int {
	sum := 0
	for _, w := range a {
		sum += w.Percent
	}
	return sum
}

// Fraction is a normalized target share in [0, 1].
type Fraction struct {
	Asset Asset   `json:"asset"`
	Share float64 `json:"share"`
}

// Fractions lists normalized shares; they sum to 1 up to float tolerance.
type Fractions []Fraction

// Sum returns the sum of shares.
func (f Fractions) Sum() float64 {
	shares := make([]float64, len(f))
	for i, fr := range f {
		shares[i] = fr.Share
	}
	return floats.Sum(shares)
}

// Action is the suggested direction for an asset.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)
