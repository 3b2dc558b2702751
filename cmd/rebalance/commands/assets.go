package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
)

// assetsCmd represents the assets command
var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "자산 카탈로그 검증 및 출력",
	Long: `자산 카탈로그(YAML)를 검증하고 내용과 해시를 출력합니다.

Example:
  go run ./cmd/rebalance assets
  go run ./cmd/rebalance assets --assets ./assets.yaml`,
	RunE: runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	return printCatalog(cmd.OutOrStdout(), rt.catalog)
}

func printCatalog(w io.Writer, cat *assetconfig.Catalog) error {
	hash, err := assetconfig.Hash(cat)
	if err != nil {
		return fmt.Errorf("hash catalog: %w", err)
	}

	PrintHeader(w, "Asset Catalog: "+cat.Meta.Name)
	PrintField(w, "Currency", cat.Meta.Currency)
	PrintField(w, "Separator", fmt.Sprintf("%q", cat.Meta.Separator))
	PrintField(w, "Step", rebalance.FormatAmount(cat.Meta.ValueStep, cat.SeparatorRune()))
	PrintField(w, "Hash", hash)
	PrintSeparator(w)

	for _, a := range cat.Assets {
		fmt.Fprintf(w, "  %-8s %15s  %3d%%\n",
			a.Label, rebalance.FormatAmount(a.DefaultValue, cat.SeparatorRune()), a.DefaultPct)
	}
	PrintSeparator(w)

	warnings := assetconfig.Warn(cat)
	for _, warn := range warnings {
		PrintWarning(w, fmt.Sprintf("[%s] %s", warn.Code, warn.Message))
	}
	if len(warnings) == 0 {
		PrintSuccess(w, fmt.Sprintf("%d assets, default allocation sums to 100%%", len(cat.Assets)))
	}
	return nil
}
