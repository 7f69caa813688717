package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gym-service/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetSnapshot(ctx context.Context, userID uuid.UUID) (*model.MemberSnapshot, error)
	UpdatePlan(ctx context.Context, userID, membershipID uuid.UUID, primaryArt, secondaryArt string) error
	ResetWeeklyCounters(ctx context.Context) error
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, email, name, membership_id, chosen_martial_art, chosen_martial_art_2, sessions_used_this_week, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) GetSnapshot(ctx context.Context, userID uuid.UUID) (*model.MemberSnapshot, error) {
	var snapshot model.MemberSnapshot
	query := `
		SELECT
			u.id AS user_id,
			m.type AS membership_type,
			m.sessions_per_week,
			u.chosen_martial_art,
			u.chosen_martial_art_2,
			u.sessions_used_this_week,
			u.created_at
		FROM users u
		LEFT JOIN memberships m ON m.id = u.membership_id
		WHERE u.id = $1
	`
	err := r.db.GetContext(ctx, &snapshot, query, userID)

	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// UpdatePlan keeps the previously chosen arts when the new values are empty,
// so switching plans never silently clears a member's arts.
func (r *postgresUserRepository) UpdatePlan(ctx context.Context, userID, membershipID uuid.UUID, primaryArt, secondaryArt string) error {
	query := `
		UPDATE users SET
			membership_id = $1,
			chosen_martial_art = CASE WHEN $2 <> '' THEN $2 ELSE chosen_martial_art END,
			chosen_martial_art_2 = CASE WHEN $3 <> '' THEN $3 ELSE chosen_martial_art_2 END,
			updated_at = now()
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, membershipID, primaryArt, secondaryArt, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ResetWeeklyCounters is the single mutation path for the external weekly
// reset job. The service itself never schedules it.
func (r *postgresUserRepository) ResetWeeklyCounters(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET sessions_used_this_week = 0`)
	return err
}
