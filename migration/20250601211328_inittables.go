package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitTables, downInitTables)
}

func upInitTables(ctx context.Context, tx *sql.Tx) error {
	// Create groups table
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE groups (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	// Create group_members table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE group_members (
			id UUID PRIMARY KEY,
			group_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_group_members_group
				FOREIGN KEY(group_id)
				REFERENCES groups(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		CREATE INDEX idx_group_members_group_id ON group_members(group_id);
	`)
	if err != nil {
		return err
	}

	// Create expenses table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE expenses (
			id UUID PRIMARY KEY,
			group_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			paid_by UUID NOT NULL,
			category INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_expenses_group
				FOREIGN KEY(group_id)
				REFERENCES groups(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		CREATE INDEX idx_expenses_group_id ON expenses(group_id);
	`)
	if err != nil {
		return err
	}

	// Create expense_shares table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE expense_shares (
			expense_id UUID NOT NULL,
			group_id UUID NOT NULL,
			member_id UUID NOT NULL,
			value NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (expense_id, group_id, member_id),
			CONSTRAINT fk_expense_shares_expense
				FOREIGN KEY(expense_id)
				REFERENCES expenses(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		CREATE INDEX idx_expense_shares_group_id ON expense_shares(group_id);
	`)
	return err
}

func downInitTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS expense_shares;`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS expenses;`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS group_members;`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS groups;`)
	return err
}
