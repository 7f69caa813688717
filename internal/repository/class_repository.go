package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gym-service/internal/model"
)

type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	List(ctx context.Context, martialArt string) ([]model.ClassDetails, error)
}

type postgresClassRepository struct {
	db *sqlx.DB
}

func NewPostgresClassRepository(db *sqlx.DB) ClassRepository {
	return &postgresClassRepository{db: db}
}

func (r *postgresClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	var class model.Class
	query := `SELECT id, class_name, martial_art, age_group, day_of_week, start_time, end_time, instructor_id, capacity FROM classes WHERE id = $1`
	err := r.db.GetContext(ctx, &class, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &class, nil
}

func (r *postgresClassRepository) List(ctx context.Context, martialArt string) ([]model.ClassDetails, error) {
	query := `
		SELECT
			c.id,
			c.class_name,
			c.martial_art,
			c.age_group,
			c.day_of_week,
			c.start_time,
			c.end_time,
			COALESCE(i.name, 'TBA') AS instructor_name
		FROM classes c
		LEFT JOIN instructors i ON c.instructor_id = i.id
	`

	args := []interface{}{}
	if martialArt != "" {
		query += ` WHERE c.martial_art ILIKE $1`
		args = append(args, martialArt)
	}
	query += ` ORDER BY c.day_of_week, c.start_time`

	var classes []model.ClassDetails
	err := r.db.SelectContext(ctx, &classes, query, args...)
	if err != nil {
		return nil, err
	}

	if classes == nil {
		classes = []model.ClassDetails{}
	}

	return classes, nil
}
