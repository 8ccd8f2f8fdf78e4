// Command datagen regenerates the local fallback dataset used when every
// live provider comes back empty.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"MarketPulse/internal/catalog"
	"MarketPulse/internal/repository"
	"MarketPulse/internal/service/dataset"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/config"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "datagen",
		Short:        "Manage the local fallback dataset",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file path (defaults apply when empty)")
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Rewrite every category CSV",
		Long: `Rewrite one CSV per catalog category from a seeded generator.

The same seed and anchor date always produce byte-identical files.
Each file is replaced atomically, so a running API never reads a partial file.`,
		Example: `  datagen generate --dir data --seed 1337
  datagen generate --anchor 2025-01-31 --rows 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dir") {
				cfg.Dataset.Dir, _ = cmd.Flags().GetString("dir")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Dataset.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("rows") {
				cfg.Dataset.RowsPerCategory, _ = cmd.Flags().GetInt("rows")
			}
			if cmd.Flags().Changed("anchor") {
				cfg.Dataset.AnchorDate, _ = cmd.Flags().GetString("anchor")
			}

			var anchor time.Time
			if cfg.Dataset.AnchorDate != "" {
				t, ok := util.ParseDate(cfg.Dataset.AnchorDate)
				if !ok {
					return fmt.Errorf("anchor %q is not YYYY-MM-DD", cfg.Dataset.AnchorDate)
				}
				anchor = t
			}

			log, err := applogger.New(&applogger.Config{Level: cfg.Logging.Level, Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}

			cat := catalog.New()
			store := repository.NewCSVDataset(cfg.Dataset.Dir, log)
			gen := dataset.NewGenerator(cat, cfg.Dataset.Seed, cfg.Dataset.RowsPerCategory, anchor)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			if err := usecase.NewRegenerateUseCase(gen, store, log).Regenerate(ctx); err != nil {
				return err
			}
			for _, slug := range cat.Slugs() {
				fmt.Fprintln(cmd.OutOrStdout(), store.Path(slug))
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "data", "output directory")
	cmd.Flags().Int64("seed", 1337, "generator seed")
	cmd.Flags().Int("rows", 100, "rows per category")
	cmd.Flags().String("anchor", "", "newest possible date, YYYY-MM-DD (default today)")
	return cmd
}
