package rebalance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant is wrapped by Result.Verify when a computed result breaks
// the sum-of-targets or zero-sum property.
var ErrInvariant = errors.New("rebalance invariant violated")

// ParseError reports a numeric input that could not be read.
// The asset keeps a zero value; other assets are unaffected.
type ParseError struct {
	Asset  Asset
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("%s: cannot parse %q: %s", e.Asset, e.Input, e.Reason)
}

// AllocationSumError is the 100% gate: the computation is skipped when
// the raw percentages do not add up to exactly 100.
type AllocationSumError struct {
	Sum int
}

func (e *AllocationSumError) Error() string {
	return fmt.Sprintf("target allocation must sum to 100%%, got %d%%", e.Sum)
}

// InvalidAllocationError reports an allocation that cannot be normalized
// (all zero, or a negative share).
type InvalidAllocationError struct {
	Reason string
}

func (e *InvalidAllocationError) Error() string {
	return "invalid allocation: " + e.Reason
}

// KeyMismatchError reports a portfolio and an allocation that do not cover
// the same asset set.
type KeyMismatchError struct {
	Missing   []Asset // in the portfolio, absent from the allocation
	Extra     []Asset // in the allocation, absent from the portfolio
	Duplicate []Asset
}

func (e *KeyMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "no target for "+joinAssets(e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "no holding for "+joinAssets(e.Extra))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate "+joinAssets(e.Duplicate))
	}
	return "asset mismatch: " + strings.Join(parts, "; ")
}

func joinAssets(assets []Asset) string {
	s := make([]string, len(assets))
	for i, a := range assets {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}
