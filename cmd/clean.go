package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"table-migrator/internal/seed"
)

var cleanSource bool

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Remove all rows from the configured target tables",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tableConfigs, err := GetTableConfigs(tables)
		if err != nil {
			return err
		}

		side := "target"
		if cleanSource {
			side = "source"
		}
		conn, err := openConn(ctx, side)
		if err != nil {
			return err
		}
		defer closeConn(conn, side)

		names := make([]string, len(tableConfigs))
		for i, t := range tableConfigs {
			names[i] = t.Name
			if side == "target" && t.TargetName != "" {
				names[i] = t.TargetName
			}
		}

		cleaned, errs := seed.Clean(ctx, conn, names, logger)
		logger.Info("clean finished", zap.String("side", side), zap.Int("cleaned", cleaned), zap.Int("failed", len(errs)))
		if len(errs) > 0 {
			return fmt.Errorf("%d tables could not be cleaned: %w", len(errs), errors.Join(errs...))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanSource, "source", false, "Clean the source tables instead of the target")
	cleanCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to clean (comma-separated)")
}
