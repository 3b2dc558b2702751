package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/gocarina/gocsv"

	"github.com/wonny/rebalancer/internal/rebalance"
)

// Terminal renders markdown for a terminal with glamour.
func Terminal(md string, wordWrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Row is one CSV line of a result.
type Row struct {
	Asset   string  `csv:"asset"`
	Current string  `csv:"current"`
	Share   float64 `csv:"target_share"`
	Target  string  `csv:"target"`
	Delta   string  `csv:"delta"`
	Drift   float64 `csv:"drift_pp"`
	Action  string  `csv:"action"`
}

// Rows flattens a result; money columns keep two decimal places.
func Rows(res *rebalance.Result) []*Row {
	rows := make([]*Row, len(res.Lines))
	for i, l := range res.Lines {
		rows[i] = &Row{
			Asset:   string(l.Asset),
			Current: l.Current.StringFixed(2),
			Share:   l.Share,
			Target:  l.Target.StringFixed(2),
			Delta:   l.Delta.StringFixed(2),
			Drift:   l.Drift,
			Action:  string(l.Action()),
		}
	}
	return rows
}

// WriteCSV writes the result as CSV with a header line.
func WriteCSV(w io.Writer, res *rebalance.Result) error {
	if err := gocsv.Marshal(Rows(res), w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
