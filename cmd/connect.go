package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/dialect"
)

// openConn connects one configured side. A failure here is fatal for the run.
func openConn(ctx context.Context, side string) (*dbconn.SQLConn, error) {
	cfg, err := GetDBConfig(side)
	if err != nil {
		return nil, err
	}
	d, err := dialect.GetDialect(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", side, err)
	}
	if cfg.IgnoresCredentials() {
		logger.Warn("username/password are not applied to this dsn; put the credentials in the dsn itself",
			zap.String("side", side), zap.String("driver", cfg.Driver))
	}
	dsn, err := cfg.ConnectionString()
	if err != nil {
		return nil, err
	}

	conn := dbconn.New(dbconn.Config{Name: side, DSN: dsn, Schema: cfg.Schema}, d, logger)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", side, err)
	}
	logger.Info("connected", zap.String("side", side), zap.String("driver", d.Name()), zap.String("schema", cfg.Schema))
	return conn, nil
}

func closeConn(conn dbconn.Conn, side string) {
	if err := conn.Disconnect(); err != nil {
		logger.Warn("closing connection", zap.String("side", side), zap.Error(err))
	}
}
