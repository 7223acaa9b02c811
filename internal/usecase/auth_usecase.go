package usecase

import (
	"context"
	"errors"
	"time"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// Register creates a new user with a bcrypt password hash. Username and email
// uniqueness is pre-checked here so a duplicate surfaces as a field-level
// message without any row being written; the unique indexes remain the
// backstop for races.
func (u *authUsecase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if existing, err := u.userRepo.GetByUsername(ctx, username); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.Internal(err)
	} else if existing != nil {
		return nil, apperror.Validation(map[string]string{"username": "This username is already taken"})
	}

	if existing, err := u.userRepo.GetByEmail(ctx, email); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.Internal(err)
	} else if existing != nil {
		return nil, apperror.Validation(map[string]string{"email": "This email is already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the username/password pair. Unknown username and wrong
// password return the same message.
func (u *authUsecase) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Unauthorized("Invalid username or password")
		}
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("Invalid username or password")
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
