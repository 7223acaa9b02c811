package postgres

import (
	"context"
	"errors"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type demographicsRepo struct {
	db *pgxpool.Pool
}

func NewDemographicsRepository(db *pgxpool.Pool) domain.DemographicsRepository {
	return &demographicsRepo{db: db}
}

func (r *demographicsRepo) Create(ctx context.Context, d *domain.Demographics) error {
	query := `INSERT INTO demographics (user_id, age, gender, location, created_at)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id`
	err := r.db.QueryRow(ctx, query, d.UserID, d.Age, d.Gender, d.Location, d.CreatedAt).
		Scan(&d.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// One demographics row per user
			return apperror.Conflict("Demographic data has already been submitted")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *demographicsRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Demographics, error) {
	query := `SELECT id, user_id, age, gender, location, created_at
              FROM demographics WHERE user_id = $1`
	var d domain.Demographics
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.ID, &d.UserID, &d.Age, &d.Gender, &d.Location, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
