package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMembershipsTable, downCreateMembershipsTable)
}

func upCreateMembershipsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE memberships (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  type TEXT UNIQUE NOT NULL,
	  sessions_per_week INT,
	  price_per_month NUMERIC(8,2) NOT NULL DEFAULT 0,
	  description TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	seed := `
	INSERT INTO memberships (type, sessions_per_week, price_per_month, description) VALUES
	  ('Basic', 2, 29.99, 'One martial art, 2 sessions per week'),
	  ('Intermediate', 3, 39.99, 'One martial art, 3 sessions per week'),
	  ('Advanced', 5, 54.99, 'Two martial arts, 5 sessions per week'),
	  ('Elite', NULL, 74.99, 'Unlimited adult classes, all martial arts'),
	  ('Junior', NULL, 24.99, 'Unlimited kids classes'),
	  ('Private Tuition', NULL, 99.99, 'One-to-one private sessions'),
	  ('Beginners'' Self-Defence', 2, 19.99, '6-week self-defence course, 2 sessions per week'),
	  ('Fitness Room Only', NULL, 19.99, 'Gym floor access, no martial arts classes');
	`

	_, err := tx.ExecContext(ctx, seed)
	return err
}

func downCreateMembershipsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS memberships;`)
	return err
}
