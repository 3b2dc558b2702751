package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/report"
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "리밸런싱 1회 계산",
	Long: `입력값으로 한 번 계산하고 보고서를 출력합니다.

지정하지 않은 자산은 카탈로그 기본값(현재 가치, 목표 비율)을 사용합니다.
목표 비율의 합이 100%가 아니면 계산을 건너뛰고 경고만 출력합니다.

Example:
  go run ./cmd/rebalance calc --value 주식=3,000,000 --alloc 주식=40 --alloc 현금=10
  go run ./cmd/rebalance calc --value ETF=500000 --csv out.csv --plain`,
	RunE: runCalc,
}

var (
	calcValues []string
	calcAllocs []string
	calcCSV    string
	calcPlain  bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	// StringArray: values contain the thousands separator, which StringSlice would split on
	calcCmd.Flags().StringArrayVar(&calcValues, "value", nil, "현재 가치 <자산>=<금액> (반복 가능)")
	calcCmd.Flags().StringArrayVar(&calcAllocs, "alloc", nil, "목표 비율 <자산>=<퍼센트> (반복 가능)")
	calcCmd.Flags().StringVar(&calcCSV, "csv", "", "결과를 CSV 파일로 저장")
	calcCmd.Flags().BoolVar(&calcPlain, "plain", false, "마크다운 원문 출력 (터미널 렌더링 안 함)")
}

func runCalc(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	plan, err := evaluateAssignments(rt.catalog, calcValues, calcAllocs)
	if err != nil {
		return err
	}

	rt.log.WithWarnings(plan.Warnings).WithField("skipped", plan.Skipped()).Debug("Calculation finished")

	if err := writePlan(cmd.OutOrStdout(), plan, rt.catalog, calcPlain); err != nil {
		return err
	}

	if calcCSV != "" {
		if plan.Skipped() {
			return fmt.Errorf("calculation skipped, nothing to export")
		}
		if err := writeCSVFile(calcCSV, plan.Result); err != nil {
			return err
		}
		PrintSuccess(cmd.OutOrStdout(), "CSV saved: "+calcCSV)
	}
	return nil
}

// evaluateAssignments overlays --value/--alloc assignments on the catalog
// defaults and runs one pass.
func evaluateAssignments(cat *assetconfig.Catalog, values, allocs []string) (*rebalance.Plan, error) {
	assets := cat.AssetList()

	valueInputs := cat.DefaultValues()
	if err := applyAssignments(valueInputs, assets, values); err != nil {
		return nil, fmt.Errorf("--value: %w", err)
	}
	pctInputs := cat.DefaultPercents()
	if err := applyAssignments(pctInputs, assets, allocs); err != nil {
		return nil, fmt.Errorf("--alloc: %w", err)
	}

	plan := cat.Parser().Evaluate(assets, valueInputs, pctInputs)
	if !plan.Skipped() {
		if err := plan.Result.Verify(); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// parseAssignment splits "자산=값" at the first '='.
func parseAssignment(s string) (rebalance.Asset, string, error) {
	asset, value, ok := strings.Cut(s, "=")
	asset = strings.TrimSpace(asset)
	if !ok || asset == "" {
		return "", "", fmt.Errorf("expected <asset>=<value>, got %q", s)
	}
	return rebalance.Asset(asset), strings.TrimSpace(value), nil
}

func applyAssignments(dst map[rebalance.Asset]string, assets []rebalance.Asset, assignments []string) error {
	known := make(map[rebalance.Asset]bool, len(assets))
	for _, a := range assets {
		known[a] = true
	}

	for _, s := range assignments {
		asset, value, err := parseAssignment(s)
		if err != nil {
			return err
		}
		if !known[asset] {
			return fmt.Errorf("unknown asset %q (known: %s)", asset, joinAssets(assets))
		}
		dst[asset] = value
	}
	return nil
}

func writePlan(w io.Writer, plan *rebalance.Plan, cat *assetconfig.Catalog, plain bool) error {
	md := report.Markdown(plan, report.Options{Currency: cat.Meta.Currency})
	return printMarkdown(w, md, plain)
}

func writeCSVFile(path string, res *rebalance.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, res); err != nil {
		return err
	}
	return f.Close()
}

func joinAssets(assets []rebalance.Asset) string {
	s := make([]string, len(assets))
	for i, a := range assets {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}
