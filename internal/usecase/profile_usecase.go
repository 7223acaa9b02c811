package usecase

import (
	"context"
	"errors"
	"time"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

type profileUsecase struct {
	demoRepo domain.DemographicsRepository
}

func NewProfileUsecase(demoRepo domain.DemographicsRepository) domain.ProfileUsecase {
	return &profileUsecase{demoRepo: demoRepo}
}

func (u *profileUsecase) SaveDemographics(ctx context.Context, userID int64, age int, gender, location string) (*domain.Demographics, error) {
	d := &domain.Demographics{
		UserID:    userID,
		Age:       age,
		Gender:    gender,
		Location:  location,
		CreatedAt: time.Now(),
	}
	if err := u.demoRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDemographics returns (nil, nil) when the user has not submitted the
// demographics form yet; absence is an expected state, not an error.
func (u *profileUsecase) GetDemographics(ctx context.Context, userID int64) (*domain.Demographics, error) {
	d, err := u.demoRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return d, nil
}
