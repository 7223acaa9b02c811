package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"go-survey-backend/config"
	v1 "go-survey-backend/internal/delivery/http/v1"
	"go-survey-backend/internal/domain"
	"go-survey-backend/internal/usecase"
	"go-survey-backend/pkg/apperror"
	"go-survey-backend/pkg/auth"
	"go-survey-backend/pkg/logger"
	"go-survey-backend/pkg/openai"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing the full handler-to-usecase stack. Not-found
// cases surface pgx.ErrNoRows, matching the postgres implementations.

type memUserRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{rows: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	stored := *user
	r.rows[user.ID] = &stored
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.rows[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memDemographicsRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]*domain.Demographics
}

func newMemDemographicsRepo() *memDemographicsRepo {
	return &memDemographicsRepo{rows: make(map[int64]*domain.Demographics)}
}

func (r *memDemographicsRepo) Create(ctx context.Context, d *domain.Demographics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[d.UserID]; ok {
		return apperror.Conflict("Demographic data has already been submitted")
	}
	r.seq++
	d.ID = r.seq
	d.CreatedAt = time.Now()
	stored := *d
	r.rows[d.UserID] = &stored
	return nil
}

func (r *memDemographicsRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Demographics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.rows[userID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

type memSurveyRepo struct {
	mu   sync.Mutex
	seq  int64
	rows []*domain.Survey
}

func (r *memSurveyRepo) Create(ctx context.Context, s *domain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.ID = r.seq
	s.CreatedAt = time.Now()
	stored := *s
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *memSurveyRepo) SetAnalysis(ctx context.Context, surveyID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ID == surveyID {
			s.ProfileAnalysis = text
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memSurveyRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Survey
	for _, s := range r.rows {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSurveyRepo) LatestByUserID(ctx context.Context, userID int64) (*domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			copied := *r.rows[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// stubCompletion returns a canned analysis or a canned failure.
type stubCompletion struct {
	text string
	err  error
}

func (s *stubCompletion) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	return s.text, s.err
}

func setupRouter(t *testing.T, completion usecase.CompletionClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init()

	cfg := &config.Config{
		FrontendURL:             "http://localhost:3000",
		SessionSecret:           "test-secret",
		SessionTTLHours:         1,
		RateLimitWindowSeconds:  60,
		RateLimitLoginThreshold: 1000,
	}

	userRepo := newMemUserRepo()
	demoRepo := newMemDemographicsRepo()
	surveyRepo := &memSurveyRepo{}

	analyzer := usecase.NewProfileAnalyzer(demoRepo, surveyRepo, completion, logger.Log)
	tokens := auth.NewTokenManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)

	return v1.NewRouter(v1.RouterDeps{
		AuthUC:    usecase.NewAuthUsecase(userRepo),
		ProfileUC: usecase.NewProfileUsecase(demoRepo),
		SurveyUC:  usecase.NewSurveyUsecase(surveyRepo, analyzer),
		HealthUC:  usecase.NewHealthUsecase(),
		Tokens:    tokens,
		Config:    cfg,
	})
}

func postForm(router *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorFields(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Error interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	fields, _ := body.Error.(map[string]interface{})
	return fields
}

// registerAndLogin creates an account and returns the session cookies.
func registerAndLogin(t *testing.T, router *gin.Engine, username string) []*http.Cookie {
	t.Helper()

	w := postForm(router, "/register", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = postForm(router, "/login", url.Values{
		"username": {username},
		"password": {"secret123"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})

	w := get(router, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})

	for _, path := range []string{"/dashboard", "/demographics", "/survey", "/logout"} {
		w := get(router, path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), w.Header().Get("Location"), path)
	}
}

func TestRegisterValidation(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})

	t.Run("Password mismatch is a field error", func(t *testing.T) {
		w := postForm(router, "/register", url.Values{
			"username":         {"alice"},
			"email":            {"alice@example.com"},
			"password":         {"secret123"},
			"password_confirm": {"different"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorFields(t, w), "password_confirm")
	})

	t.Run("Malformed email is a field error", func(t *testing.T) {
		w := postForm(router, "/register", url.Values{
			"username":         {"alice"},
			"email":            {"not-an-email"},
			"password":         {"secret123"},
			"password_confirm": {"secret123"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorFields(t, w), "email")
	})

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		registerAndLogin(t, router, "taken")

		w := postForm(router, "/register", url.Values{
			"username":         {"taken"},
			"email":            {"other@example.com"},
			"password":         {"secret123"},
			"password_confirm": {"secret123"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorFields(t, w), "username")
	})
}

func TestLoginFailures(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})
	registerAndLogin(t, router, "alice")

	t.Run("Wrong password", func(t *testing.T) {
		w := postForm(router, "/login", url.Values{
			"username": {"alice"},
			"password": {"wrong"},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	})

	t.Run("Unknown user gets the same response", func(t *testing.T) {
		w := postForm(router, "/login", url.Values{
			"username": {"nobody"},
			"password": {"secret123"},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	})
}

func TestLoginNextRedirect(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})
	registerAndLogin(t, router, "alice")

	login := func(next string) *httptest.ResponseRecorder {
		return postForm(router, "/login", url.Values{
			"username": {"alice"},
			"password": {"secret123"},
			"next":     {next},
		}, nil)
	}

	t.Run("Relative next is honored", func(t *testing.T) {
		w := login("/dashboard")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("Absolute next falls back to home", func(t *testing.T) {
		w := login("https://evil.example.com/")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("Protocol-relative next falls back to home", func(t *testing.T) {
		w := login("//evil.example.com/")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestDemographicsValidation(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})
	cookies := registerAndLogin(t, router, "alice")

	submit := func(age, gender, location string) *httptest.ResponseRecorder {
		return postForm(router, "/demographics", url.Values{
			"age":      {age},
			"gender":   {gender},
			"location": {location},
		}, cookies)
	}

	cases := []struct {
		name     string
		age      string
		gender   string
		location string
		wantCode int
		field    string
	}{
		{"Age below range", "17", "Other", "Berlin", http.StatusBadRequest, "age"},
		{"Age above range", "101", "Other", "Berlin", http.StatusBadRequest, "age"},
		{"Unknown gender", "30", "Robot", "Berlin", http.StatusBadRequest, "gender"},
		{"Blank location", "30", "Other", "   ", http.StatusBadRequest, "location"},
		{"Lower age bound accepted", "18", "Other", "Berlin", http.StatusSeeOther, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := submit(tc.age, tc.gender, tc.location)
			assert.Equal(t, tc.wantCode, w.Code)
			if tc.field != "" {
				assert.Contains(t, errorFields(t, w), tc.field)
			}
		})
	}

	t.Run("Upper age bound accepted for a fresh user", func(t *testing.T) {
		cookies := registerAndLogin(t, router, "bob")
		w := postForm(router, "/demographics", url.Values{
			"age":      {"100"},
			"gender":   {"Female"},
			"location": {"Oslo"},
		}, cookies)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/survey", w.Header().Get("Location"))
	})

	t.Run("Second submission conflicts", func(t *testing.T) {
		w := submit("30", "Other", "Berlin")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSurveyFlow(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "  A thoughtful generalist. "})
	cookies := registerAndLogin(t, router, "alice")

	t.Run("Dashboard is empty before any survey", func(t *testing.T) {
		w := get(router, "/dashboard", cookies)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No surveys submitted yet")
	})

	t.Run("Blank skills are rejected", func(t *testing.T) {
		w := postForm(router, "/survey", url.Values{
			"soft_skills": {"   "},
			"hard_skills": {"Go, SQL"},
		}, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorFields(t, w), "soft_skills")
	})

	t.Run("Submission stores the trimmed analysis", func(t *testing.T) {
		w := postForm(router, "/demographics", url.Values{
			"age":      {"30"},
			"gender":   {"Other"},
			"location": {"Berlin"},
		}, cookies)
		require.Equal(t, http.StatusSeeOther, w.Code)

		w = postForm(router, "/survey", url.Values{
			"soft_skills": {"communication"},
			"hard_skills": {"Go, SQL"},
		}, cookies)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/dashboard", w.Header().Get("Location"))

		w = get(router, "/dashboard", cookies)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "A thoughtful generalist.")
		assert.NotContains(t, w.Body.String(), "  A thoughtful")
	})
}

func TestSurveyWithoutDemographics(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "should not be used"})
	cookies := registerAndLogin(t, router, "alice")

	// The survey row is stored even though the analyzer has nothing to work with
	w := postForm(router, "/survey", url.Values{
		"soft_skills": {"listening"},
		"hard_skills": {"Go"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(router, "/dashboard", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), usecase.AnalysisInsufficientData)
}

func TestSurveyAnalysisFallback(t *testing.T) {
	router := setupRouter(t, &stubCompletion{err: errors.New("upstream down")})
	cookies := registerAndLogin(t, router, "alice")

	w := postForm(router, "/demographics", url.Values{
		"age":      {"30"},
		"gender":   {"Male"},
		"location": {"Lisbon"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = postForm(router, "/survey", url.Values{
		"soft_skills": {"empathy"},
		"hard_skills": {"Kubernetes"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(router, "/dashboard", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), usecase.AnalysisFallback)
}

func TestLogoutClearsSession(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})
	cookies := registerAndLogin(t, router, "alice")

	w := get(router, "/logout", cookies)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must expire the session cookie")
}

func TestTamperedSessionCookie(t *testing.T) {
	router := setupRouter(t, &stubCompletion{text: "ok"})
	registerAndLogin(t, router, "alice")

	w := get(router, "/dashboard", []*http.Cookie{{Name: "auth_token", Value: "not-a-token"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", w.Header().Get("Location"))
}
