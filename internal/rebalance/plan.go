package rebalance

// Plan is the outcome of one computation pass. Result is nil when the pass
// was skipped; Warnings explains why, and also carries recovered input errors.
type Plan struct {
	Portfolio  Portfolio
	Allocation Allocation
	Fractions  Fractions
	Result     *Result
	Warnings   []error
}

// Skipped reports whether the computation did not run.
func (p *Plan) Skipped() bool {
	return p.Result == nil
}

// Run performs one pass: 100% gate, normalization, calculation.
// Nothing here is fatal; every failure becomes a warning on the plan.
func Run(portfolio Portfolio, alloc Allocation, warnings ...error) *Plan {
	plan := &Plan{
		Portfolio:  portfolio,
		Allocation: alloc,
		Warnings:   append([]error(nil), warnings...),
	}

	if err := CheckSum(alloc); err != nil {
		plan.Warnings = append(plan.Warnings, err)
		return plan
	}

	fractions, err := Normalize(alloc)
	if err != nil {
		plan.Warnings = append(plan.Warnings, err)
		return plan
	}
	plan.Fractions = fractions

	result, err := Calculate(portfolio, fractions)
	if err != nil {
		plan.Warnings = append(plan.Warnings, err)
		return plan
	}
	plan.Result = result

	return plan
}

// Evaluate parses raw operator inputs for the given assets and runs a pass.
func (p Parser) Evaluate(assets []Asset, values, percents map[Asset]string) *Plan {
	portfolio, valueErrs := p.Portfolio(assets, values)
	alloc, pctErrs := p.Allocation(assets, percents)
	return Run(portfolio, alloc, append(valueErrs, pctErrs...)...)
}
