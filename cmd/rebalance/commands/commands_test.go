package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/session"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in        string
		wantAsset rebalance.Asset
		wantValue string
		wantErr   bool
	}{
		{"주식=1,000,000", "주식", "1,000,000", false},
		{" ETF = 25 ", "ETF", "25", false},
		{"현금=", "현금", "", false},
		{"a=b=c", "a", "b=c", false},
		{"주식", "", "", true},
		{"=100", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			asset, value, err := parseAssignment(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAsset, asset)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestEvaluateAssignments(t *testing.T) {
	cat := assetconfig.Default()

	plan, err := evaluateAssignments(cat,
		[]string{"주식=3,000,000"},
		[]string{"주식=40", "현금=10"},
	)
	require.NoError(t, err)
	require.False(t, plan.Skipped(), "warnings: %v", plan.Warnings)

	line, ok := plan.Result.Line("현금")
	require.True(t, ok)
	// total 6,000,000 × 10%
	assert.Equal(t, "600000", line.Target.Round(0).String())

	_, err = evaluateAssignments(cat, []string{"코인=1"}, nil)
	assert.ErrorContains(t, err, "unknown asset")

	plan, err = evaluateAssignments(cat, nil, []string{"주식=10"})
	require.NoError(t, err)
	assert.True(t, plan.Skipped())
}

func runRepl(t *testing.T, input string) string {
	t.Helper()
	cat := assetconfig.Default()
	var out bytes.Buffer
	r := &repl{
		in:      strings.NewReader(input),
		out:     &out,
		catalog: cat,
		session: session.New(cat),
		plain:   true,
	}
	require.NoError(t, r.run())
	return out.String()
}

func TestRepl_Flow(t *testing.T) {
	out := runRepl(t, strings.Join([]string{
		"alloc ETF 15",
		"alloc 현금 35",
		"set 주식 2,000,000",
		"step 현금 -5",
		"bogus",
		"quit",
		"set 주식 1", // never reached
	}, "\n"))

	assert.Contains(t, out, "현재 합계는 90%입니다")
	assert.Contains(t, out, "₩2,000,000")
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "₩500,000", "현금 stepped down by five 100,000 steps")
	assert.NotContains(t, out, "₩1 ")
}

func TestRepl_Errors(t *testing.T) {
	out := runRepl(t, "set 코인 1\nalloc 주식\nstep 주식 x\ncsv\n")

	assert.Contains(t, out, "unknown asset")
	assert.Contains(t, out, "usage: alloc")
	assert.Contains(t, out, "step count must be an integer")
	assert.Contains(t, out, "usage: csv")
}

func TestRepl_CSVAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	out := runRepl(t, "set 주식 9\nreset\ncsv "+path+"\nexit\n")

	assert.Contains(t, out, "CSV saved")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "주식,1000000.00,0.25,1000000.00,0.00,0,HOLD")
}

func TestPrintCatalog(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCatalog(&out, assetconfig.Default()))

	s := out.String()
	assert.Contains(t, s, "Asset Catalog: default")
	assert.Contains(t, s, "100,000")
	assert.Contains(t, s, "default allocation sums to 100%")
}
