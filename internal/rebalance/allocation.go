package rebalance

import "fmt"

// CheckSum is the gate in front of Normalize: the raw percentages must add
// up to exactly 100. It does not correct the allocation.
func CheckSum(a Allocation) error {
	if sum := a.Sum(); sum != 100 {
		return &AllocationSumError{Sum: sum}
	}
	return nil
}

// Normalize converts raw percentages into shares of 1. The sum is taken again
// here, so Normalize stays well-defined for callers that skip CheckSum.
func Normalize(a Allocation) (Fractions, error) {
	sum := 0
	for _, w := range a {
		if w.Percent < 0 {
			return nil, &InvalidAllocationError{Reason: fmt.Sprintf("%s has a negative share (%d%%)", w.Asset, w.Percent)}
		}
		sum += w.Percent
	}

	if sum == 0 {
		return nil, &InvalidAllocationError{Reason: "all target percentages are zero"}
	}

	fractions := make(Fractions, len(a))
	for i, w := range a {
		fractions[i] = Fraction{
			Asset: w.Asset,
			Share: float64(w.Percent) / float64(sum),
		}
	}
	return fractions, nil
}
