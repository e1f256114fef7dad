package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"table-migrator/internal/migrate"
)

// DBConfig is one side of a migration, read from the "source" or "target" key.
type DBConfig struct {
	Name     string
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Schema   string `mapstructure:"schema"`
}

func init() {
	viper.SetDefault("settings.default_chunk_size", migrate.DefaultChunkSize)
	viper.SetDefault("settings.migrate_indexes_globally", false)
	viper.SetDefault("settings.log_level", "info")
	viper.SetDefault("source.driver", "oracle")
	viper.SetDefault("target.driver", "oracle")

	for _, side := range []string{"source", "target"} {
		prefix := strings.ToUpper(side) + "_DB_"
		for _, field := range []string{"username", "password", "dsn"} {
			_ = viper.BindEnv(side+"."+field, prefix+strings.ToUpper(field))
		}
	}
}

// GetDBConfig reads one side. Keys are read one by one so environment
// overrides apply even when the file omits them.
func GetDBConfig(side string) (DBConfig, error) {
	cfg := DBConfig{
		Name:     side,
		Driver:   viper.GetString(side + ".driver"),
		DSN:      viper.GetString(side + ".dsn"),
		Username: viper.GetString(side + ".username"),
		Password: viper.GetString(side + ".password"),
		Schema:   viper.GetString(side + ".schema"),
	}
	if cfg.DSN == "" {
		return cfg, fmt.Errorf("%s.dsn is required (config file or %s_DB_DSN)", side, strings.ToUpper(side))
	}
	return cfg, nil
}

// ConnectionString turns the config into a driver DSN. Oracle DSNs in
// host[:port]/service form are expanded with go-ora's URL builder and
// (DESCRIPTION=...) descriptors with its JDBC builder; anything else is
// passed through.
func (c DBConfig) ConnectionString() (string, error) {
	if !c.buildsOracleURL() {
		return c.DSN, nil
	}
	if strings.HasPrefix(strings.TrimSpace(c.DSN), "(") {
		return go_ora.BuildJDBC(c.Username, c.Password, strings.TrimSpace(c.DSN), nil), nil
	}

	hostPort, service, ok := strings.Cut(c.DSN, "/")
	if !ok || service == "" {
		return "", fmt.Errorf("%s: oracle dsn %q must look like host:port/service or (DESCRIPTION=...)", c.Name, c.DSN)
	}
	host, portStr, hasPort := strings.Cut(hostPort, ":")
	port := 1521
	if hasPort {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return "", fmt.Errorf("%s: invalid port in dsn %q: %w", c.Name, c.DSN, err)
		}
		port = p
	}
	return go_ora.BuildUrl(host, port, service, c.Username, c.Password, nil), nil
}

// IgnoresCredentials reports whether username or password are set but the
// DSN is used as-is, so they never reach the driver.
func (c DBConfig) IgnoresCredentials() bool {
	return (c.Username != "" || c.Password != "") && !c.buildsOracleURL()
}

func (c DBConfig) buildsOracleURL() bool {
	return strings.EqualFold(c.Driver, "oracle") && !strings.Contains(c.DSN, "://")
}

// GetTableConfigs reads the "tables" list in file order, keeping only names in
// filter when it is non-empty.
func GetTableConfigs(filter []string) ([]migrate.TableConfig, error) {
	var tables []migrate.TableConfig
	if err := viper.UnmarshalKey("tables", &tables); err != nil {
		return nil, fmt.Errorf("failed to parse tables config: %w", err)
	}
	for _, t := range tables {
		if t.ExistingTableBehavior != "" && !t.ExistingTableBehavior.Valid() {
			logger.Warn("unknown existing_table_behavior, the table fails if its target exists",
				zap.String("table", t.Name), zap.String("behavior", string(t.ExistingTableBehavior)))
		}
	}
	if len(filter) == 0 {
		if len(tables) == 0 {
			return nil, errors.New("no tables configured")
		}
		return tables, nil
	}

	want := make(map[string]bool, len(filter))
	for _, t := range filter {
		want[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	var selected []migrate.TableConfig
	for _, t := range tables {
		if want[strings.ToUpper(t.Name)] {
			selected = append(selected, t)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", filter)
	}
	return selected, nil
}

// loadDotEnv copies variables from a .env file into the environment without
// overriding ones that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return nil
}
