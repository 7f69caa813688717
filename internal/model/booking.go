package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	ClassID     uuid.UUID  `db:"class_id" json:"class_id"`
	Status      string     `db:"status" json:"status"`
	BookedAt    time.Time  `db:"booked_at" json:"booked_at"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// BookingDetails is the dashboard view: a booking joined with its class.
type BookingDetails struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClassID     uuid.UUID  `db:"class_id" json:"class_id"`
	ClassName   string     `db:"class_name" json:"class_name"`
	MartialArt  string     `db:"martial_art" json:"martial_art"`
	DayOfWeek   string     `db:"day_of_week" json:"day_of_week"`
	StartTime   string     `db:"start_time" json:"start_time"`
	EndTime     string     `db:"end_time" json:"end_time"`
	Status      string     `db:"status" json:"status"`
	BookedAt    time.Time  `db:"booked_at" json:"booked_at"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}
