package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/wonny/rebalancer/internal/rebalance"
)

const (
	barCurrent = '█'
	barTarget  = '▒'
)

// intensity glyphs, lowest to highest
var shades = []rune{' ', '░', '▒', '▓', '█'}

// BarChart draws current vs target as grouped horizontal bars, one pair per
// asset, scaled so the largest value spans width cells.
func BarChart(s rebalance.Series, width int, currency string) string {
	if width <= 0 {
		width = 30
	}

	peak := 0.0
	for i := range s.Labels {
		peak = math.Max(peak, math.Max(s.Current[i], s.Target[i]))
	}

	labelWidth := 0
	for _, l := range s.Labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 현재 포트폴리오  %s 목표 포트폴리오\n\n", string(barCurrent), string(barTarget))
	for i, label := range s.Labels {
		pad := runewidth.FillRight(label, labelWidth)
		writeBar(&b, pad, barCurrent, s.Current[i], peak, width, currency)
		writeBar(&b, strings.Repeat(" ", labelWidth), barTarget, s.Target[i], peak, width, currency)
	}
	return b.String()
}

func writeBar(b *strings.Builder, label string, glyph rune, v, peak float64, width int, currency string) {
	n := 0
	if peak > 0 {
		n = int(math.Round(v / peak * float64(width)))
	}
	fmt.Fprintf(b, "%s │%s%s %s\n",
		label,
		strings.Repeat(string(glyph), n),
		strings.Repeat(" ", width-n),
		FormatMoney(decimal.NewFromFloat(v), currency),
	)
}

// Shade maps |v| relative to peak onto an intensity glyph.
func Shade(v, peak float64) rune {
	if peak <= 0 {
		return shades[0]
	}
	ratio := math.Min(math.Abs(v)/peak, 1)
	return shades[int(math.Round(ratio*float64(len(shades)-1)))]
}

// heatmapScales returns one scale per column. Current and target share a
// scale so their shades compare; delta uses its own absolute maximum.
func heatmapScales(h rebalance.Heatmap) []float64 {
	scales := make([]float64, len(h.Columns))
	for _, row := range h.Cells {
		for j, v := range row {
			scales[j] = math.Max(scales[j], math.Abs(v))
		}
	}

	shared := 0.0
	for j, c := range h.Columns {
		if c != rebalance.ColumnDelta {
			shared = math.Max(shared, scales[j])
		}
	}
	for j, c := range h.Columns {
		if c != rebalance.ColumnDelta {
			scales[j] = shared
		}
	}
	return scales
}
