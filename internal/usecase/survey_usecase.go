package usecase

import (
	"context"
	"errors"
	"time"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

type surveyUsecase struct {
	surveyRepo domain.SurveyRepository
	analyzer   domain.ProfileAnalyzer
}

func NewSurveyUsecase(surveyRepo domain.SurveyRepository, analyzer domain.ProfileAnalyzer) domain.SurveyUsecase {
	return &surveyUsecase{surveyRepo: surveyRepo, analyzer: analyzer}
}

// SubmitSurvey persists the survey first and writes the generated analysis in
// a second update. The survey row is durable even if the submitter disconnects
// while the analysis call is in flight.
func (u *surveyUsecase) SubmitSurvey(ctx context.Context, userID int64, softSkills, hardSkills string) (*domain.Survey, error) {
	s := &domain.Survey{
		UserID:     userID,
		SoftSkills: softSkills,
		HardSkills: hardSkills,
		CreatedAt:  time.Now(),
	}
	if err := u.surveyRepo.Create(ctx, s); err != nil {
		return nil, err
	}

	// Blocking call; the submitting request waits for the full round trip.
	// Analyze never fails, a broken outbound call yields the fallback text.
	analysis := u.analyzer.Analyze(ctx, userID)

	if err := u.surveyRepo.SetAnalysis(ctx, s.ID, analysis); err != nil {
		return nil, err
	}
	s.ProfileAnalysis = analysis
	return s, nil
}

// ListSurveys returns the user's full submission history, oldest first.
func (u *surveyUsecase) ListSurveys(ctx context.Context, userID int64) ([]domain.Survey, error) {
	surveys, err := u.surveyRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return surveys, nil
}

// LatestSurvey returns (nil, nil) for a user with no surveys.
func (u *surveyUsecase) LatestSurvey(ctx context.Context, userID int64) (*domain.Survey, error) {
	s, err := u.surveyRepo.LatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return s, nil
}
