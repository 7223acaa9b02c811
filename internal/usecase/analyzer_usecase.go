package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/openai"
)

// Fixed analyzer results. These are stored verbatim in the survey row, so
// they are part of the observable behavior.
const (
	AnalysisInsufficientData = "Insufficient data for profile analysis."
	AnalysisFallback         = "Profile analysis error."
)

// CompletionClient is the outbound text-completion boundary, satisfied by
// openai.Client and mocked in tests.
type CompletionClient interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

type profileAnalyzer struct {
	demoRepo   domain.DemographicsRepository
	surveyRepo domain.SurveyRepository
	client     CompletionClient
	log        *slog.Logger
}

func NewProfileAnalyzer(demoRepo domain.DemographicsRepository, surveyRepo domain.SurveyRepository, client CompletionClient, log *slog.Logger) domain.ProfileAnalyzer {
	return &profileAnalyzer{
		demoRepo:   demoRepo,
		surveyRepo: surveyRepo,
		client:     client,
		log:        log,
	}
}

// Analyze builds one prompt from the user's demographics and latest survey and
// issues a single completion request. It always returns a usable string: the
// insufficient-data text when either record is missing, the fallback text when
// the outbound call fails. Errors are logged here and never propagated.
func (a *profileAnalyzer) Analyze(ctx context.Context, userID int64) string {
	demo, err := a.demoRepo.GetByUserID(ctx, userID)
	if err != nil || demo == nil {
		return AnalysisInsufficientData
	}

	survey, err := a.surveyRepo.LatestByUserID(ctx, userID)
	if err != nil || survey == nil {
		return AnalysisInsufficientData
	}

	prompt := fmt.Sprintf(`Analyze the profile of the following user based on their demographic data and skills:

Age: %d
Gender: %s
Location: %s
Soft skills: %s
Hard skills: %s

Provide a detailed summary of the user's profile.`,
		demo.Age, demo.Gender, demo.Location, survey.SoftSkills, survey.HardSkills)

	messages := []openai.Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: prompt},
	}

	text, err := a.client.Complete(ctx, messages)
	if err != nil {
		a.log.Error("profile analysis call failed", "user_id", userID, "error", err)
		return AnalysisFallback
	}
	return strings.TrimSpace(text)
}
