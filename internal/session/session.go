package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
)

// ErrUnknownAsset is returned when an edit names an asset outside the session.
var ErrUnknownAsset = errors.New("unknown asset")

// Session is one operator's working set: the raw text of every input field.
// Inputs are kept as typed so an unparsable field survives until corrected,
// and every read re-evaluates from scratch.
type Session struct {
	ID        string                     `msgpack:"id"`
	Catalog   string                     `msgpack:"catalog"`
	Assets    []rebalance.Asset          `msgpack:"assets"`
	Separator string                     `msgpack:"separator"`
	ValueStep int64                      `msgpack:"value_step"`
	Values    map[rebalance.Asset]string `msgpack:"values"`
	Percents  map[rebalance.Asset]string `msgpack:"percents"`
	CreatedAt time.Time                  `msgpack:"created_at"`
	UpdatedAt time.Time                  `msgpack:"updated_at"`
}

// New starts a session filled with the catalog defaults.
func New(cat *assetconfig.Catalog) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	s.Reset(cat)
	return s
}

// Reset restores the catalog's asset set and default inputs.
func (s *Session) Reset(cat *assetconfig.Catalog) {
	s.Catalog = cat.Meta.Name
	s.Assets = cat.AssetList()
	s.Separator = cat.Meta.Separator
	s.ValueStep = cat.Meta.ValueStep
	s.Values = cat.DefaultValues()
	s.Percents = cat.DefaultPercents()
	s.touch()
}

// SetValue replaces the raw current-value text for asset.
func (s *Session) SetValue(asset rebalance.Asset, raw string) error {
	if !s.has(asset) {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	s.Values[asset] = raw
	s.touch()
	return nil
}

// SetPercent replaces the raw target-percentage text for asset.
func (s *Session) SetPercent(asset rebalance.Asset, raw string) error {
	if !s.has(asset) {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	s.Percents[asset] = raw
	s.touch()
	return nil
}

// Step moves the current value of asset by n value steps, clamped to
// [0, math.MaxInt64].
// An unparsable field is treated as zero and overwritten.
func (s *Session) Step(asset rebalance.Asset, n int) error {
	if !s.has(asset) {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	p := s.parser()
	v, err := p.Amount(s.Values[asset])
	if err != nil {
		v = 0
	}
	v = stepValue(v, n, s.ValueStep)
	s.Values[asset] = rebalance.FormatAmount(v, p.Separator)
	s.touch()
	return nil
}

// stepValue returns v + n*step saturated to [0, math.MaxInt64]. v >= 0.
func stepValue(v int64, n int, step int64) int64 {
	if n == 0 || step <= 0 {
		return v
	}
	d := int64(n)
	if d > 0 {
		if d > (math.MaxInt64-v)/step {
			return math.MaxInt64
		}
		return v + d*step
	}
	if d < -(v / step) {
		return 0
	}
	return v + d*step
}

// Evaluate parses the stored inputs and runs one calculation pass.
func (s *Session) Evaluate() *rebalance.Plan {
	return s.parser().Evaluate(s.Assets, s.Values, s.Percents)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Assets = append([]rebalance.Asset(nil), s.Assets...)
	c.Values = make(map[rebalance.Asset]string, len(s.Values))
	for k, v := range s.Values {
		c.Values[k] = v
	}
	c.Percents = make(map[rebalance.Asset]string, len(s.Percents))
	for k, v := range s.Percents {
		c.Percents[k] = v
	}
	return &c
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.UpdatedAt) > ttl
}

func (s *Session) parser() rebalance.Parser {
	var sep rune
	for _, r := range s.Separator {
		sep = r
		break
	}
	return rebalance.NewParser(sep)
}

func (s *Session) has(asset rebalance.Asset) bool {
	for _, a := range s.Assets {
		if a == asset {
			return true
		}
	}
	return false
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
