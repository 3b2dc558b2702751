package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wonny/rebalancer/internal/rebalance"
)

func samplePlan() *rebalance.Plan {
	portfolio := rebalance.Portfolio{{Asset: "A", Value: 1000000}, {Asset: "B", Value: 1000000}, {Asset: "C", Value: 1000000}}
	alloc := rebalance.Allocation{{Asset: "A", Percent: 10}, {Asset: "B", Percent: 30}, {Asset: "C", Percent: 60}}
	return rebalance.Run(portfolio, alloc)
}

// countNodes parses md with the table extension and counts tables and
// fenced code blocks.
func countNodes(t *testing.T, md string) (tables, fenced int) {
	t.Helper()

	src := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(src))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *extast.Table:
			tables++
		case *ast.FencedCodeBlock:
			fenced++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return tables, fenced
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{decimal.NewFromInt(1000000), "KRW", "₩1,000,000"},
		{decimal.NewFromInt(0), "", "₩0"},
		{decimal.RequireFromString("333333.5"), "KRW", "₩333,334"},
		{decimal.RequireFromString("1234.5"), "USD", "$1,234.50"},
		{decimal.NewFromInt(12), "ZZZ", "12"},
		{decimal.NewFromInt(math.MaxInt64), "KRW", "₩9,223,372,036,854,775,807"},
		{decimal.RequireFromString("9223372036854775808"), "KRW", "₩9,223,372,036,854,775,808"},
		{decimal.RequireFromString("-36893488147419103228"), "KRW", "-₩36,893,488,147,419,103,228"},
		{decimal.RequireFromString("100000000000000000.25"), "USD", "$100,000,000,000,000,000.25"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.amount, tt.currency))
	}

	assert.Contains(t, FormatMoney(decimal.NewFromInt(-700000), "KRW"), "700,000")
	assert.Contains(t, FormatMoney(decimal.NewFromInt(-700000), "KRW"), "-")
}

func TestMarkdown_Computed(t *testing.T) {
	plan := samplePlan()
	require.False(t, plan.Skipped())

	md := Markdown(plan, Options{})

	tables, fenced := countNodes(t, md)
	assert.Equal(t, 3, tables, "targets, deltas, heatmap")
	assert.Equal(t, 1, fenced, "bar chart")

	assert.Contains(t, md, "# 자산 포트폴리오 리밸런싱")
	assert.Contains(t, md, "₩3,000,000")
	assert.Contains(t, md, "| A | ₩1,000,000 | 10.00% | ₩300,000 |")
	assert.Contains(t, md, "| C |")
	assert.Contains(t, md, "매수")
	assert.Contains(t, md, "매도")
	assert.Contains(t, md, "+23.33%p")
	assert.NotContains(t, md, "⚠️")
}

func TestMarkdown_SkippedShowsSum(t *testing.T) {
	portfolio := rebalance.Portfolio{{Asset: "A", Value: 1}, {Asset: "B", Value: 1}, {Asset: "C", Value: 1}}
	alloc := rebalance.Allocation{{Asset: "A", Percent: 30}, {Asset: "B", Percent: 30}, {Asset: "C", Percent: 30}}

	md := Markdown(rebalance.Run(portfolio, alloc), Options{Title: "테스트"})

	tables, fenced := countNodes(t, md)
	assert.Zero(t, tables)
	assert.Zero(t, fenced)
	assert.Contains(t, md, "# 테스트")
	assert.Contains(t, md, "현재 합계는 90%입니다")
	assert.Contains(t, md, "진행하지 않았습니다")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sum", &rebalance.AllocationSumError{Sum: 110}, "110%"},
		{"parse", &rebalance.ParseError{Asset: "채권", Input: "12a", Reason: "not a whole number"}, `채권의 입력값 "12a"`},
		{"invalid", &rebalance.InvalidAllocationError{Reason: "all target percentages are zero"}, "정규화할 수 없습니다"},
		{"other", errors.New("asset mismatch: no target for X"), "asset mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Describe(tt.err, "KRW"), tt.want)
		})
	}
}

func TestBarChart(t *testing.T) {
	s := samplePlan().Result.Series()

	chart := BarChart(s, 10, "KRW")
	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")

	// legend, blank line, then two bars per asset
	require.Len(t, lines, 2+2*len(s.Labels))

	// C target (1,800,000) is the peak and spans the full width
	assert.Contains(t, lines[7], strings.Repeat("▒", 10))
	// A target is 300,000 / 1,800,000 of the width
	assert.Equal(t, 2, strings.Count(lines[3], "▒"))
	// current values are equal
	assert.Equal(t, strings.Count(lines[2], "█"), strings.Count(lines[4], "█"))
}

func TestBarChart_KoreanLabelsAligned(t *testing.T) {
	s := rebalance.Series{
		Labels:  []string{"주식", "ETF"},
		Current: []float64{1, 1},
		Target:  []float64{1, 1},
	}
	lines := strings.Split(BarChart(s, 4, "KRW"), "\n")

	// "주식" is four cells wide, "ETF" is padded to match
	assert.True(t, strings.HasPrefix(lines[2], "주식 │"))
	assert.True(t, strings.HasPrefix(lines[4], "ETF  │"))
	assert.True(t, strings.HasPrefix(lines[3], "     │"))
}

func TestShade(t *testing.T) {
	assert.Equal(t, ' ', Shade(0, 100))
	assert.Equal(t, '█', Shade(100, 100))
	assert.Equal(t, '█', Shade(-100, 100))
	assert.Equal(t, '▒', Shade(50, 100))
	assert.Equal(t, ' ', Shade(5, 0))
}

func TestHeatmapScales(t *testing.T) {
	h := rebalance.Heatmap{
		Columns: []string{rebalance.ColumnCurrent, rebalance.ColumnTarget, rebalance.ColumnDelta},
		Cells: [][]float64{
			{100, 300, 200},
			{500, 200, -300},
		},
	}
	assert.Equal(t, []float64{500, 500, 300}, heatmapScales(h))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePlan().Result))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "asset,current,target_share,target,delta,drift_pp,action", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "A,1000000.00,0.1,300000.00,-700000.00,"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ",SELL"), lines[1])
	assert.True(t, strings.HasSuffix(lines[3], ",BUY"), lines[3])
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(Markdown(samplePlan(), Options{}), 100)
	require.NoError(t, err)
	assert.Contains(t, out, "리밸런싱")
	assert.Contains(t, out, "₩300,000")
}
