package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"table-migrator/internal/logging"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
	logger   = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "table-migrator",
	Short: "Copy tables between relational databases",
	Long: `
table-migrator copies a configured list of tables from a source database to a
target database: it creates or reconciles each target table, streams rows in
committed batches and can recreate the source indexes.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("settings.log_level"))
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Info("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the CLI. Interrupts cancel the run between tables.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./table-migrator.yaml)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with connection credentials")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("settings.log_level", RootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in the dotenv file, the config file and ENV variables.
func initConfig() {
	if err := loadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("table-migrator")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Warning: could not read config file:", err)
	}
}
