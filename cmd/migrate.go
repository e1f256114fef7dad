package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"table-migrator/internal/migrate"
	"table-migrator/internal/progress"
	"table-migrator/internal/schema"
)

var (
	tables       []string
	chunkSize    int
	dryRun       bool
	forceIndexes bool
)

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Copy the configured tables from source to target",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, dryRun)
	},
}

var planCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Show what migrate would do without changing the target",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, true)
	},
}

func runMigration(cmd *cobra.Command, dry bool) error {
	ctx := cmd.Context()

	tableConfigs, err := GetTableConfigs(tables)
	if err != nil {
		return err
	}

	source, err := openConn(ctx, "source")
	if err != nil {
		return err
	}
	defer closeConn(source, "source")

	target, err := openConn(ctx, "target")
	if err != nil {
		return err
	}
	defer closeConn(target, "target")

	opts := migrate.Options{
		DefaultChunkSize: viper.GetInt("settings.default_chunk_size"),
		MigrateIndexes:   viper.GetBool("settings.migrate_indexes_globally") || forceIndexes,
		DryRun:           dry,
	}
	if chunkSize > 0 {
		opts.DefaultChunkSize = chunkSize
	}

	var lister migrate.IndexLister
	if opts.MigrateIndexes {
		lister = schema.NewIndexReader(source, schema.NewIntrospector(logger))
	}

	var (
		bars *progress.Bars
		prog migrate.Progress = migrate.NopProgress{}
	)
	if !dry {
		bars = progress.New(os.Stdout)
		prog = bars
	}

	logger.Info("starting migration", zap.Int("tables", len(tableConfigs)),
		zap.Int("default_chunk_size", opts.DefaultChunkSize), zap.Bool("indexes", opts.MigrateIndexes), zap.Bool("dry_run", dry))

	start := time.Now()
	summary := migrate.New(source, target, lister, prog, opts, logger).Run(ctx, tableConfigs)
	if bars != nil {
		bars.Stop()
	}

	if dry {
		printPlans(os.Stdout, summary)
	}
	printSummary(os.Stdout, summary, time.Since(start))

	if summary.Failed() {
		return fmt.Errorf("%d of %d tables failed", summary.FailureCount, len(summary.Outcomes))
	}
	return nil
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(planCmd)

	for _, c := range []*cobra.Command{migrateCmd, planCmd} {
		c.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to migrate (comma-separated)")
		c.Flags().IntVar(&chunkSize, "chunk-size", 0, "Rows per batch for tables without chunk_size (overrides config)")
		c.Flags().BoolVar(&forceIndexes, "indexes", false, "Recreate source indexes on the target")
	}
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan every table without writing to the target")
}
