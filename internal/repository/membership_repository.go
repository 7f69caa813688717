package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gym-service/internal/model"
)

type MembershipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error)
	List(ctx context.Context) ([]model.Membership, error)
}

type postgresMembershipRepository struct {
	db *sqlx.DB
}

func NewPostgresMembershipRepository(db *sqlx.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	query := `SELECT id, type, sessions_per_week, price_per_month, description FROM memberships WHERE id = $1`
	err := r.db.GetContext(ctx, &membership, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *postgresMembershipRepository) List(ctx context.Context) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.SelectContext(ctx, &memberships, `SELECT id, type, sessions_per_week, price_per_month, description FROM memberships ORDER BY price_per_month`)
	return memberships, err
}
