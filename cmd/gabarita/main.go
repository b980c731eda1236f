// Command gabarita is the operator CLI: question bank import, account
// creation and offline grading.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/logger"
	"github.com/gabarita/gabarita-backend/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gabarita",
		Short:        "Operator tools for the Gabarita simulado backend",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("driver", "", "Storage driver, postgres or sqlite (overrides STORAGE_DRIVER)")
	root.PersistentFlags().String("db", "", "SQLite database path (overrides SQLITE_PATH)")

	root.AddCommand(importQuestionsCmd(), createUserCmd(), gradeCmd())
	return root
}

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.StorageDriver = d
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.SQLitePath = p
	}
	return cfg
}

// openStores opens the configured backend with a logger writing to stderr so
// command output on stdout stays clean.
func openStores(ctx context.Context, cmd *cobra.Command) (*config.Config, *store.Stores, zerolog.Logger, error) {
	cfg := loadConfig(cmd)
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, log, fmt.Errorf("open storage: %w", err)
	}
	return cfg, st, log, nil
}
