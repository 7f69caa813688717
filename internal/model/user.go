package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID  `db:"id"`
	Email                string     `db:"email"`
	Name                 string     `db:"name"`
	MembershipID         *uuid.UUID `db:"membership_id"`
	ChosenMartialArt     *string    `db:"chosen_martial_art"`
	ChosenMartialArt2    *string    `db:"chosen_martial_art_2"`
	SessionsUsedThisWeek int        `db:"sessions_used_this_week"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// MemberSnapshot is the joined user+membership view the eligibility rules run on.
// MembershipType is nil when the user has no active plan.
type MemberSnapshot struct {
	UserID               uuid.UUID `db:"user_id"`
	MembershipType       *string   `db:"membership_type"`
	SessionsPerWeek      *int      `db:"sessions_per_week"`
	ChosenMartialArt     *string   `db:"chosen_martial_art"`
	ChosenMartialArt2    *string   `db:"chosen_martial_art_2"`
	SessionsUsedThisWeek int       `db:"sessions_used_this_week"`
	CreatedAt            time.Time `db:"created_at"`
}
