package main

import (
	"os"

	"github.com/wonny/rebalancer/cmd/rebalance/commands"
)

// main is the entry point for the rebalancer CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/rebalance [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
