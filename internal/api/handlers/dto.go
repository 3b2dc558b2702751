package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/report"
	"github.com/wonny/rebalancer/internal/session"
)

// Input is a raw operator field. JSON strings ("1,000,000") and numbers
// (1000000) are both accepted and kept as text for the parser.
type Input string

func (in *Input) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*in = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("input must be a string or a number")
	}
	*in = Input(n.String())
	return nil
}

// LineDTO is one asset of a computed plan
type LineDTO struct {
	Asset         string  `json:"asset"`
	Current       float64 `json:"current"`
	Share         float64 `json:"share"`
	Target        float64 `json:"target"`
	Delta         float64 `json:"delta"`
	Drift         float64 `json:"drift"`
	Action        string  `json:"action"`
	TargetDisplay string  `json:"target_display"`
	DeltaDisplay  string  `json:"delta_display"`
}

// PlanResponse is the JSON form of one computation pass
type PlanResponse struct {
	Skipped  bool               `json:"skipped"`
	Warnings []string           `json:"warnings"`
	Total    float64            `json:"total"`
	Lines    []LineDTO          `json:"lines,omitempty"`
	Series   *rebalance.Series  `json:"series,omitempty"`
	Heatmap  *rebalance.Heatmap `json:"heatmap,omitempty"`
}

// NewPlanResponse converts a plan; warnings are rendered as operator text.
func NewPlanResponse(plan *rebalance.Plan, currency string) PlanResponse {
	resp := PlanResponse{
		Skipped:  plan.Skipped(),
		Warnings: make([]string, len(plan.Warnings)),
	}
	for i, w := range plan.Warnings {
		resp.Warnings[i] = report.Describe(w, currency)
	}
	if plan.Skipped() {
		return resp
	}

	res := plan.Result
	resp.Total = res.Total.InexactFloat64()
	for _, l := range res.Lines {
		resp.Lines = append(resp.Lines, LineDTO{
			Asset:         string(l.Asset),
			Current:       l.Current.InexactFloat64(),
			Share:         l.Share,
			Target:        l.Target.InexactFloat64(),
			Delta:         l.Delta.InexactFloat64(),
			Drift:         l.Drift,
			Action:        string(l.Action()),
			TargetDisplay: report.FormatMoney(l.Target, currency),
			DeltaDisplay:  report.FormatMoney(l.Delta, currency),
		})
	}

	series := res.Series()
	heatmap := series.Heatmap()
	resp.Series = &series
	resp.Heatmap = &heatmap
	return resp
}

// SessionResponse is a session's inputs plus the plan they produce
type SessionResponse struct {
	ID        string            `json:"id"`
	Catalog   string            `json:"catalog"`
	Assets    []string          `json:"assets"`
	Values    map[string]string `json:"values"`
	Percents  map[string]string `json:"percents"`
	ValueStep int64             `json:"value_step"`
	UpdatedAt time.Time         `json:"updated_at"`
	Plan      PlanResponse      `json:"plan"`
}

// NewSessionResponse evaluates s and wraps the result.
func NewSessionResponse(s *session.Session, currency string) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		Catalog:   s.Catalog,
		Assets:    make([]string, len(s.Assets)),
		Values:    make(map[string]string, len(s.Values)),
		Percents:  make(map[string]string, len(s.Percents)),
		ValueStep: s.ValueStep,
		UpdatedAt: s.UpdatedAt,
		Plan:      NewPlanResponse(s.Evaluate(), currency),
	}
	for i, a := range s.Assets {
		resp.Assets[i] = string(a)
	}
	for k, v := range s.Values {
		resp.Values[string(k)] = v
	}
	for k, v := range s.Percents {
		resp.Percents[string(k)] = v
	}
	return resp
}
