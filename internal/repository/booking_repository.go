package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"gym-service/internal/model"
)

const pgUniqueViolation = "23505"

type BookingRepository interface {
	CreateConfirmed(ctx context.Context, userID, classID uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error)
	HasConfirmed(ctx context.Context, userID, classID uuid.UUID) (bool, error)
}

type postgresBookingRepository struct {
	db *sqlx.DB
}

func NewPostgresBookingRepository(db *sqlx.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

// CreateConfirmed inserts a confirmed booking and bumps the member's weekly
// session counter in one transaction. The in-transaction duplicate check
// catches repeat attempts early; the partial unique index on
// (user_id, class_id) WHERE status = 'confirmed' is what actually closes the
// race between two concurrent attempts, so a unique violation from the insert
// is reported as ErrDuplicateBooking too.
func (r *postgresBookingRepository) CreateConfirmed(ctx context.Context, userID, classID uuid.UUID) (*model.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	var existingID uuid.UUID
	checkQuery := `SELECT id FROM bookings WHERE user_id = $1 AND class_id = $2 AND status = 'confirmed' FOR UPDATE`
	err = tx.GetContext(ctx, &existingID, checkQuery, userID, classID)
	if err == nil {
		return nil, ErrDuplicateBooking
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	booking := &model.Booking{
		UserID:  userID,
		ClassID: classID,
		Status:  model.BookingStatusConfirmed,
	}

	insertQuery := `INSERT INTO bookings (user_id, class_id, status) VALUES ($1, $2, 'confirmed') RETURNING id, booked_at`
	err = tx.QueryRowxContext(ctx, insertQuery, userID, classID).Scan(&booking.ID, &booking.BookedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE users SET sessions_used_this_week = sessions_used_this_week + 1, updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("increment session counter: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows != 1 {
		return nil, fmt.Errorf("increment session counter: user %s not found", userID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}

	return booking, nil
}

// Cancel flips a confirmed booking to cancelled and decrements the weekly
// counter, which never goes below zero. Only the owner of a currently
// confirmed booking can cancel it; anything else reports sql.ErrNoRows.
func (r *postgresBookingRepository) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', cancelled_at = now() WHERE id = $1 AND user_id = $2 AND status = 'confirmed'`,
		bookingID, userID)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET sessions_used_this_week = GREATEST(sessions_used_this_week - 1, 0), updated_at = now() WHERE id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("decrement session counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel tx: %w", err)
	}

	return nil
}

func (r *postgresBookingRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	query := `
		SELECT
			b.id,
			b.class_id,
			c.class_name,
			c.martial_art,
			c.day_of_week,
			c.start_time,
			c.end_time,
			b.status,
			b.booked_at,
			b.cancelled_at
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.user_id = $1
		ORDER BY b.booked_at DESC
	`

	var bookings []model.BookingDetails
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []model.BookingDetails{}
	}

	return bookings, nil
}

func (r *postgresBookingRepository) HasConfirmed(ctx context.Context, userID, classID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND class_id = $2 AND status = 'confirmed')`
	err := r.db.GetContext(ctx, &exists, query, userID, classID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return exists, nil
}
