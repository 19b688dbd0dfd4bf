package writer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the results table when it does not exist.
func EnsureSchema(ctx context.Context, db Execer, table string) error {
	name := pgx.Identifier{table}.Sanitize()
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id   UUID             NOT NULL,
			kind     TEXT             NOT NULL,
			scan     TEXT             NOT NULL,
			source   TEXT             NOT NULL,
			driving  TEXT             NOT NULL,
			day      DATE             NOT NULL,
			tau      INTEGER          NOT NULL,
			shift    INTEGER          NOT NULL DEFAULT 0,
			num      DOUBLE PRECISION NOT NULL,
			support  BIGINT           NOT NULL,
			PRIMARY KEY (run_id, kind, scan, source, driving, day, tau, shift)
		)
	`, name)
	if _, err := db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}
