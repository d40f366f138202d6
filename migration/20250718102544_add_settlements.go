package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddSettlements, downAddSettlements)
}

func upAddSettlements(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE settlements (
			id UUID PRIMARY KEY,
			group_id UUID NOT NULL,
			from_member UUID NOT NULL,
			to_member UUID NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			note VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_settlements_group
				FOREIGN KEY(group_id)
				REFERENCES groups(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT chk_settlements_distinct_members
				CHECK (from_member <> to_member)
		);
	`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		CREATE INDEX idx_settlements_group_id ON settlements(group_id);
	`)
	return err
}

func downAddSettlements(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS settlements;`)
	return err
}
