package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateClassesTable, downCreateClassesTable)
}

func upCreateClassesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE classes (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  class_name TEXT NOT NULL,
	  martial_art TEXT NOT NULL,
	  age_group TEXT NOT NULL DEFAULT 'Adults' CHECK (age_group IN ('Adults', 'Kids')),
	  day_of_week TEXT NOT NULL,
	  start_time TIME NOT NULL,
	  end_time TIME NOT NULL,
	  instructor_id UUID REFERENCES instructors(id) ON DELETE SET NULL,
	  capacity INT NOT NULL DEFAULT 20,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateClassesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS classes;`)
	return err
}
