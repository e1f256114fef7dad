package dialect

import (
	"fmt"
	"strings"
)

// GetDialect returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "oracle":
		return &OracleDialect{}, nil
	case "postgres", "postgresql":
		return &PostgresDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "mysql":
		return &MysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
