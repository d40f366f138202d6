package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddExpenseSplitType, downAddExpenseSplitType)
}

func upAddExpenseSplitType(ctx context.Context, tx *sql.Tx) error {
	// 0 = equal, 1 = exact, 2 = percentage. Existing rows were all equal splits.
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE expenses
		ADD COLUMN split_type INT NOT NULL DEFAULT 0;
	`)
	return err
}

func downAddExpenseSplitType(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE expenses
		DROP COLUMN IF EXISTS split_type;
	`)
	return err
}
