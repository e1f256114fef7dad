package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"table-migrator/internal/progress"
	"table-migrator/internal/seed"
)

var (
	count      int
	cleanFirst bool
	seedValue  int64
)

var seedCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Fill the configured source tables with generated rows",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tableConfigs, err := GetTableConfigs(tables)
		if err != nil {
			return err
		}
		names := make([]string, len(tableConfigs))
		for i, t := range tableConfigs {
			names[i] = t.Name
		}

		source, err := openConn(ctx, "source")
		if err != nil {
			return err
		}
		defer closeConn(source, "source")

		if cleanFirst {
			if _, errs := seed.Clean(ctx, source, names, logger); len(errs) > 0 {
				logger.Warn("some tables could not be cleaned", zap.Int("failed", len(errs)))
			}
		}

		targetCount := viper.GetInt("settings.seed_count")
		if seedValue == 0 {
			seedValue = time.Now().UnixNano()
		}
		logger.Info("starting seed", zap.Int("count", targetCount), zap.Int64("seed", seedValue))

		bars := progress.New(os.Stdout)
		seeder := seed.NewSeeder(source, seed.NewGenerator(seedValue), seed.DefaultBatchSize, bars, logger)

		start := time.Now()
		var results []seed.Result
		failed := 0
		for _, name := range names {
			if ctx.Err() != nil {
				break
			}
			r := seeder.Seed(ctx, name, targetCount)
			if !r.OK() {
				failed++
			}
			results = append(results, r)
		}
		bars.Stop()

		printSeedSummary(os.Stdout, results, time.Since(start))
		if failed > 0 {
			return fmt.Errorf("%d of %d tables were not fully seeded", failed, len(results))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&count, "count", 0, "Number of records to generate per table (overrides config)")
	seedCmd.Flags().BoolVar(&cleanFirst, "clean", false, "Clean tables before seeding")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed for reproducible data (default: time based)")
	seedCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to seed (comma-separated)")

	_ = viper.BindPFlag("settings.seed_count", seedCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.seed_count", 100)
}
