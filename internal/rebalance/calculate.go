package rebalance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the relative tolerance used by Verify.
const Tolerance = 1e-6

// Line is the outcome for one asset.
type Line struct {
	Asset   Asset           `json:"asset"`
	Current decimal.Decimal `json:"current"`
	Share   float64         `json:"share"`  // target share (0.0 ~ 1.0)
	Target  decimal.Decimal `json:"target"` // total × share
	Delta   decimal.Decimal `json:"delta"`  // target − current; > 0 buy, < 0 sell
	Drift   float64         `json:"drift"`  // current weight − target weight, in percentage points
}

// Action returns the direction implied by Delta, using whole won.
func (l Line) Action() Action {
	switch l.Delta.Round(0).Sign() {
	case 1:
		return ActionBuy
	case -1:
		return ActionSell
	default:
		return ActionHold
	}
}

// Result holds target values and rebalance deltas in portfolio order.
type Result struct {
	Total decimal.Decimal `json:"total"`
	Lines []Line          `json:"lines"`
}

// Calculate distributes the total current value according to the normalized
// shares. Both inputs must cover exactly the same assets; the output follows
// the portfolio order.
func Calculate(p Portfolio, f Fractions) (*Result, error) {
	shares, err := matchAssets(p, f)
	if err != nil {
		return nil, err
	}

	total := p.Total()
	result := &Result{
		Total: total,
		Lines: make([]Line, 0, len(p)),
	}

	for _, h := range p {
		share := shares[h.Asset]
		current := decimal.NewFromInt(h.Value)
		target := total.Mul(decimal.NewFromFloat(share))

		var weight float64
		if total.IsPositive() {
			weight = current.Div(total).InexactFloat64()
		}

		result.Lines = append(result.Lines, Line{
			Asset:   h.Asset,
			Current: current,
			Share:   share,
			Target:  target,
			Delta:   target.Sub(current),
			Drift:   (weight - share) * 100,
		})
	}

	return result, nil
}

// matchAssets indexes shares by asset and fails on any difference between the
// two key sets.
func matchAssets(p Portfolio, f Fractions) (map[Asset]float64, error) {
	mismatch := &KeyMismatchError{}

	shares := make(map[Asset]float64, len(f))
	for _, fr := range f {
		if _, dup := shares[fr.Asset]; dup {
			mismatch.Duplicate = append(mismatch.Duplicate, fr.Asset)
			continue
		}
		shares[fr.Asset] = fr.Share
	}

	held := make(map[Asset]bool, len(p))
	for _, h := range p {
		if held[h.Asset] {
			mismatch.Duplicate = append(mismatch.Duplicate, h.Asset)
			continue
		}
		held[h.Asset] = true
		if _, ok := shares[h.Asset]; !ok {
			mismatch.Missing = append(mismatch.Missing, h.Asset)
		}
	}

	for _, fr := range f {
		if !held[fr.Asset] {
			mismatch.Extra = append(mismatch.Extra, fr.Asset)
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Extra) > 0 || len(mismatch.Duplicate) > 0 {
		return nil, mismatch
	}
	return shares, nil
}

// Targets returns the target value per asset, in order.
func (r *Result) Targets() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.Target
	}
	return out
}

// Deltas returns the signed rebalance amount per asset, in order.
func (r *Result) Deltas() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.Delta
	}
	return out
}

// Line returns the line for an asset.
func (r *Result) Line(asset Asset) (Line, bool) {
	for _, l := range r.Lines {
		if l.Asset == asset {
			return l, true
		}
	}
	return Line{}, false
}

// Verify checks that target values add up to the total and that deltas add
// up to zero, both within Tolerance relative to the total.
func (r *Result) Verify() error {
	total := r.Total.InexactFloat64()
	targets := make([]float64, len(r.Lines))
	deltas := make([]float64, len(r.Lines))
	for i, l := range r.Lines {
		targets[i] = l.Target.InexactFloat64()
		deltas[i] = l.Delta.InexactFloat64()
	}

	scale := math.Max(math.Abs(total), 1)

	if sum := floats.Sum(targets); !scalar.EqualWithinAbsOrRel(sum, total, Tolerance, Tolerance) {
		return fmt.Errorf("%w: targets sum to %.2f, total is %.2f", ErrInvariant, sum, total)
	}
	if sum := floats.Sum(deltas); !scalar.EqualWithinAbs(sum, 0, Tolerance*scale) {
		return fmt.Errorf("%w: deltas sum to %.6f", ErrInvariant, sum)
	}
	return nil
}
