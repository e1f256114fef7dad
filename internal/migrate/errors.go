package migrate

import "errors"

// Table-level failures. Each is wrapped with context by the component that
// detects it; check with errors.Is.
var (
	ErrSourceMissing      = errors.New("source table does not exist")
	ErrIncompatibleSchema = errors.New("target table schema is incompatible with source")
	ErrInvalidBehavior    = errors.New("invalid existing_table_behavior")
	ErrInvalidMode        = errors.New("invalid migration mode")
	ErrMissingQuery       = errors.New("custom mode requires a query")
	ErrDDL                = errors.New("ddl statement failed")
	ErrRowCount           = errors.New("row count failed")
	ErrInsert             = errors.New("batch insert failed")
	ErrColumnMismatch     = errors.New("source and target column counts differ")
)
