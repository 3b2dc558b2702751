package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/rebalancer/internal/rebalance"
)

// Options control report output.
type Options struct {
	Title    string
	Currency string
	BarWidth int
}

var columnTitles = map[string]string{
	rebalance.ColumnCurrent: "현재 가치",
	rebalance.ColumnTarget:  "목표 가치",
	rebalance.ColumnDelta:   "리밸런싱 금액",
}

var actionTitles = map[rebalance.Action]string{
	rebalance.ActionBuy:  "매수",
	rebalance.ActionSell: "매도",
	rebalance.ActionHold: "유지",
}

// Markdown renders the plan: warnings, target and delta tables, the bar
// chart and the heatmap. A skipped plan renders warnings only.
func Markdown(plan *rebalance.Plan, opts Options) string {
	if opts.Title == "" {
		opts.Title = "자산 포트폴리오 리밸런싱"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", opts.Title)

	for _, w := range plan.Warnings {
		fmt.Fprintf(&b, "> ⚠️ %s\n>\n", Describe(w, opts.Currency))
	}
	if len(plan.Warnings) > 0 {
		b.WriteString("\n")
	}

	if plan.Skipped() {
		b.WriteString("리밸런싱 계산을 진행하지 않았습니다.\n")
		return b.String()
	}

	res := plan.Result
	cur := opts.Currency

	fmt.Fprintf(&b, "## 목표 포트폴리오 가치\n\n")
	fmt.Fprintf(&b, "총 자산: **%s**\n\n", FormatMoney(res.Total, cur))
	b.WriteString("| 자산 | 현재 가치 | 목표 비중 | 목표 가치 |\n")
	b.WriteString("|:---|---:|---:|---:|\n")
	for _, l := range res.Lines {
		fmt.Fprintf(&b, "| %s | %s | %.2f%% | %s |\n",
			l.Asset, FormatMoney(l.Current, cur), l.Share*100, FormatMoney(l.Target, cur))
	}

	fmt.Fprintf(&b, "\n## 리밸런싱 제안\n\n")
	b.WriteString("| 자산 | 리밸런싱 금액 | 조치 | 비중 차이 |\n")
	b.WriteString("|:---|---:|:---:|---:|\n")
	for _, l := range res.Lines {
		fmt.Fprintf(&b, "| %s | %s | %s | %+.2f%%p |\n",
			l.Asset, FormatMoney(l.Delta, cur), actionTitles[l.Action()], l.Drift)
	}

	series := res.Series()

	fmt.Fprintf(&b, "\n## 현재 포트폴리오 vs 목표 포트폴리오\n\n```\n")
	b.WriteString(BarChart(series, opts.BarWidth, cur))
	b.WriteString("```\n")

	b.WriteString("\n## 히트맵\n\n")
	writeHeatmap(&b, series.Heatmap(), cur)

	return b.String()
}

func writeHeatmap(b *strings.Builder, h rebalance.Heatmap, currency string) {
	b.WriteString("| 자산 |")
	for _, c := range h.Columns {
		fmt.Fprintf(b, " %s |", columnTitles[c])
	}
	b.WriteString("\n|:---|")
	for range h.Columns {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	scales := heatmapScales(h)
	for i, row := range h.Rows {
		fmt.Fprintf(b, "| %s |", row)
		for j, v := range h.Cells[i] {
			fmt.Fprintf(b, " %s %s |", string(Shade(v, scales[j])), FormatMoney(decimal.NewFromFloat(v), currency))
		}
		b.WriteString("\n")
	}
}

// Describe turns a plan warning into an operator-facing sentence.
func Describe(err error, currency string) string {
	var (
		sumErr   *rebalance.AllocationSumError
		parseErr *rebalance.ParseError
		allocErr *rebalance.InvalidAllocationError
	)
	switch {
	case errors.As(err, &sumErr):
		return fmt.Sprintf("목표 배분 비율의 합이 100%%가 되지 않았습니다. 현재 합계는 %d%%입니다.", sumErr.Sum)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("%s의 입력값 %q을(를) 읽을 수 없습니다 (%s). 0으로 계산합니다.",
			parseErr.Asset, parseErr.Input, parseErr.Reason)
	case errors.As(err, &allocErr):
		return "목표 배분을 정규화할 수 없습니다: " + allocErr.Reason
	default:
		return err.Error()
	}
}
