package config_test

import (
	"fmt"

	"github.com/wonny/rebalancer/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Session TTL: %v\n", cfg.Session.TTL)
	if cfg.Redis.Enabled {
		fmt.Printf("Session store: redis at %s\n", cfg.RedisAddr())
	}
}
