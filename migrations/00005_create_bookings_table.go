package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookingsTable, downCreateBookingsTable)
}

func upCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE bookings (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	  status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'cancelled')),
	  booked_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  cancelled_at TIMESTAMP WITH TIME ZONE
	);
	`

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	// The real guard against double booking: the in-transaction duplicate
	// check alone is not sufficient under read-committed isolation.
	index := `
	CREATE UNIQUE INDEX bookings_one_confirmed_per_user_class
	  ON bookings (user_id, class_id)
	  WHERE status = 'confirmed';
	`

	_, err := tx.ExecContext(ctx, index)
	return err
}

func downCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookings;`)
	return err
}
