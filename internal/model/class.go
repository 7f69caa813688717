package model

import (
	"github.com/google/uuid"
)

const AgeGroupKids = "Kids"

type Class struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ClassName    string     `db:"class_name" json:"class_name"`
	MartialArt   string     `db:"martial_art" json:"martial_art"`
	AgeGroup     string     `db:"age_group" json:"age_group"`
	DayOfWeek    string     `db:"day_of_week" json:"day_of_week"`
	StartTime    string     `db:"start_time" json:"start_time"`
	EndTime      string     `db:"end_time" json:"end_time"`
	InstructorID *uuid.UUID `db:"instructor_id" json:"instructor_id,omitempty"`
	Capacity     int        `db:"capacity" json:"capacity"`
}

func (c *Class) IsKidsClass() bool {
	return c.AgeGroup == AgeGroupKids
}

type ClassDetails struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ClassName      string    `db:"class_name" json:"class_name"`
	MartialArt     string    `db:"martial_art" json:"martial_art"`
	AgeGroup       string    `db:"age_group" json:"age_group"`
	DayOfWeek      string    `db:"day_of_week" json:"day_of_week"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
}
