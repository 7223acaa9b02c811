package domain

import (
	"context"
	"time"
)

// Genders accepted on the demographics form
var Genders = []string{"Male", "Female", "Other"}

// Demographics is the one-per-user demographic record. Created once when the
// user first submits the demographics form; there is no update path.
type Demographics struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// Survey is one skills submission. A user may submit any number of them;
// ProfileAnalysis is filled in by a second write right after creation.
type Survey struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	SoftSkills      string    `json:"soft_skills"`
	HardSkills      string    `json:"hard_skills"`
	ProfileAnalysis string    `json:"profile_analysis,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type DemographicsRepository interface {
	Create(ctx context.Context, d *Demographics) error
	GetByUserID(ctx context.Context, userID int64) (*Demographics, error)
}

type SurveyRepository interface {
	Create(ctx context.Context, s *Survey) error
	SetAnalysis(ctx context.Context, surveyID int64, text string) error
	ListByUserID(ctx context.Context, userID int64) ([]Survey, error)
	LatestByUserID(ctx context.Context, userID int64) (*Survey, error)
}

type ProfileUsecase interface {
	SaveDemographics(ctx context.Context, userID int64, age int, gender, location string) (*Demographics, error)
	GetDemographics(ctx context.Context, userID int64) (*Demographics, error)
}

type SurveyUsecase interface {
	SubmitSurvey(ctx context.Context, userID int64, softSkills, hardSkills string) (*Survey, error)
	LatestSurvey(ctx context.Context, userID int64) (*Survey, error)
	ListSurveys(ctx context.Context, userID int64) ([]Survey, error)
}

// ProfileAnalyzer turns a user's demographics and latest survey into a
// natural-language summary. It never fails: missing data or a failed outbound
// call both map to fixed fallback strings.
type ProfileAnalyzer interface {
	Analyze(ctx context.Context, userID int64) string
}
