package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id         BIGINT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		balance    BIGINT NOT NULL CHECK (balance >= 0),
		currency   TEXT NOT NULL,
		version    BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		sequence    BIGSERIAL PRIMARY KEY,
		txn_id      TEXT NOT NULL UNIQUE,
		kind        SMALLINT NOT NULL,
		amount      BIGINT NOT NULL,
		source      BIGINT NOT NULL,
		destination BIGINT NOT NULL,
		status      SMALLINT NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		initiator   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		applied_at  TIMESTAMPTZ,
		recorded_at TIMESTAMPTZ NOT NULL,
		changes     JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_source ON ledger_entries (source, sequence DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_destination ON ledger_entries (destination, sequence DESC)`,
}

// Migrate 建立資料表 (可重複執行)
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
