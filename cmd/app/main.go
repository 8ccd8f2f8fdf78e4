// Command app serves the MarketPulse HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"MarketPulse/internal/di"
	"MarketPulse/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "dotenv file with provider credentials")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		log.Printf("marketpulse: %v", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	// credentials may come from the real environment instead
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("dotenv %s: %w", envFile, err)
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.Printf("env=%s news=%v social=%v kafka=%t clickhouse=%t redis=%t",
		cfg.Environment, cfg.Providers.NewsOrder, cfg.Providers.Social,
		cfg.Kafka.Enabled, cfg.ClickHouse.Enabled, cfg.Redis.Enabled)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()

	return app.Run(context.Background())
}
