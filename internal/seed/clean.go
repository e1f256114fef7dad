package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
)

// Clean empties tables in reverse order so children listed after their
// parents go first. A failing table is reported and the rest still run.
func Clean(ctx context.Context, conn dbconn.Conn, tables []string, logger *zap.Logger) (int, []error) {
	logger = logger.Named("clean")
	d := conn.Dialect()

	cleaned := 0
	var errs []error
	for i := len(tables) - 1; i >= 0; i-- {
		table := tables[i]
		if err := conn.Exec(ctx, d.TruncateQuery(table)); err != nil {
			logger.Warn("failed to clean table", zap.String("table", table), zap.Error(err))
			errs = append(errs, fmt.Errorf("cleaning %s: %w", table, err))
			continue
		}
		cleaned++
		if cleaned%5 == 0 || cleaned == len(tables) {
			logger.Info("cleaning tables", zap.Int("done", cleaned), zap.Int("total", len(tables)))
		}
	}
	return cleaned, errs
}
