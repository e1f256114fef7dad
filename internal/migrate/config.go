package migrate

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultChunkSize applies when neither the table nor the run sets one.
const DefaultChunkSize = 10000

type Mode string

const (
	ModeFull   Mode = "full"
	ModeCustom Mode = "custom"
)

type ExistingTableBehavior string

const (
	DropAndRecreate    ExistingTableBehavior = "drop_and_recreate"
	AppendIfCompatible ExistingTableBehavior = "append_if_compatible"
)

func (b ExistingTableBehavior) Valid() bool {
	return b == DropAndRecreate || b == AppendIfCompatible
}

// TableConfig describes one table of a run. Zero values take defaults:
// full mode, drop_and_recreate, the run's chunk size and the same table name
// on the target. Unknown behavior strings are kept as-is so the table fails
// during reconciliation instead of at load time.
type TableConfig struct {
	Name                  string                `mapstructure:"name"`
	TargetName            string                `mapstructure:"target_name"`
	Mode                  Mode                  `mapstructure:"mode"`
	Query                 string                `mapstructure:"query"`
	ExistingTableBehavior ExistingTableBehavior `mapstructure:"existing_table_behavior"`
	ChunkSize             int                   `mapstructure:"chunk_size"`
}

func (c TableConfig) withDefaults() TableConfig {
	if c.Mode == "" {
		c.Mode = ModeFull
	}
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	if c.ExistingTableBehavior == "" {
		c.ExistingTableBehavior = DropAndRecreate
	}
	if c.TargetName == "" {
		c.TargetName = c.Name
	}
	return c
}

func (c TableConfig) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("table name is empty")
	}
	switch c.Mode {
	case ModeFull:
		return nil
	case ModeCustom:
		if strings.TrimSpace(c.Query) == "" {
			return fmt.Errorf("table %s: %w", c.Name, ErrMissingQuery)
		}
		return nil
	default:
		return fmt.Errorf("table %s: %w %q", c.Name, ErrInvalidMode, c.Mode)
	}
}

// customQuery returns the caller-supplied query in custom mode, or "".
func (c TableConfig) customQuery() string {
	if c.Mode == ModeCustom {
		return c.Query
	}
	return ""
}

func (c TableConfig) chunkSize(fallback int) int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultChunkSize
}
