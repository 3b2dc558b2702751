package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/pkg/config"
	"github.com/wonny/rebalancer/pkg/logger"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
	assetsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "자산 포트폴리오 리밸런싱 계산기",
	Long: `Portfolio Rebalancer CLI

현재 자산 가치와 목표 배분 비율로 목표 금액과 매수/매도 금액을 계산합니다.

Usage:
  go run ./cmd/rebalance [command]

Examples:
  go run ./cmd/rebalance calc --value 주식=3,000,000 --alloc 주식=40 --alloc 현금=10
  go run ./cmd/rebalance interactive
  go run ./cmd/rebalance serve --port 8090
  go run ./cmd/rebalance assets --assets ./assets.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&assetsFile, "assets", "", "asset catalog YAML (default is ASSETS_FILE or built-in)")
}

// runtime is what every command needs
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	catalog *assetconfig.Catalog
}

// loadRuntime applies global flags on top of the environment config.
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if assetsFile != "" {
		cfg.AssetsFile = assetsFile
	}

	log := logger.New(cfg)

	catalog, err := assetconfig.LoadOrDefault(cfg.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("load asset catalog: %w", err)
	}
	for _, w := range assetconfig.Warn(catalog) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	return &runtime{cfg: cfg, log: log, catalog: catalog}, nil
}
