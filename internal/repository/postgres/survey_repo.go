package postgres

import (
	"context"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type surveyRepo struct {
	db *pgxpool.Pool
}

func NewSurveyRepository(db *pgxpool.Pool) domain.SurveyRepository {
	return &surveyRepo{db: db}
}

func (r *surveyRepo) Create(ctx context.Context, s *domain.Survey) error {
	query := `INSERT INTO surveys (user_id, soft_skills, hard_skills, created_at)
              VALUES ($1, $2, $3, $4)
              RETURNING id`
	err := r.db.QueryRow(ctx, query, s.UserID, s.SoftSkills, s.HardSkills, s.CreatedAt).
		Scan(&s.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *surveyRepo) SetAnalysis(ctx context.Context, surveyID int64, text string) error {
	query := `UPDATE surveys SET profile_analysis = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, surveyID, text)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// ListByUserID returns the user's surveys in creation order (oldest first).
func (r *surveyRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.Survey, error) {
	query := `SELECT id, user_id, soft_skills, hard_skills, COALESCE(profile_analysis, ''), created_at
              FROM surveys
              WHERE user_id = $1
              ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []domain.Survey
	for rows.Next() {
		var s domain.Survey
		if err := rows.Scan(&s.ID, &s.UserID, &s.SoftSkills, &s.HardSkills, &s.ProfileAnalysis, &s.CreatedAt); err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

func (r *surveyRepo) LatestByUserID(ctx context.Context, userID int64) (*domain.Survey, error) {
	query := `SELECT id, user_id, soft_skills, hard_skills, COALESCE(profile_analysis, ''), created_at
              FROM surveys
              WHERE user_id = $1
              ORDER BY id DESC
              LIMIT 1`
	var s domain.Survey
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.SoftSkills, &s.HardSkills, &s.ProfileAnalysis, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
