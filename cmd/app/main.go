package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"StockPilot/internal/di"
	"StockPilot/pkg/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "stockpilot",
		Short: "Stock prediction and signal engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")

	root.AddCommand(serveCmd(), trainCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	// .env is optional; environment wins over YAML either way
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log.Printf("env=%s port=%d", cfg.Environment, cfg.Server.Port)

			app, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}

			return app.Run()
		},
	}
}

func trainCmd() *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the forecast models for one symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Printf("close error: %v", err)
				}
			}()

			scores, err := app.TrainSymbol(context.Background(), symbol)
			if err != nil {
				return err
			}
			for name, score := range scores {
				fmt.Printf("%s: %.4f\n", name, score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "ticker symbol to train")
	_ = cmd.MarkFlagRequired("symbol")

	return cmd
}
