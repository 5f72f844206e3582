package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the settings table when it does not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key              TEXT PRIMARY KEY,
			value            JSONB NOT NULL,
			last_modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_modified_by TEXT
		)`, d.table)

	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s table: %w", d.table, err)
	}

	d.logger.Debug().Str("table", d.table).Msg("Settings table ready")
	return nil
}
