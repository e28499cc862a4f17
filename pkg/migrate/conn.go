package migrate

import (
	"context"
	"database/sql"
	"fmt"

	// registers the "postgres" database/sql driver used by goose
	_ "github.com/lib/pq"
)

// OpenPostgres opens a single-connection database/sql handle for goose, apart
// from the application's gorm pool. Failing statements come back as *pq.Error.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return sqlDB, nil
}
