package model

import "github.com/google/uuid"

type Membership struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Type            string    `db:"type" json:"type"`
	SessionsPerWeek *int      `db:"sessions_per_week" json:"sessions_per_week,omitempty"`
	PricePerMonth   float64   `db:"price_per_month" json:"price_per_month"`
	Description     string    `db:"description" json:"description"`
}
