package v1

import (
	"net/http"

	"go-survey-backend/internal/delivery/http/middleware"
	"go-survey-backend/internal/delivery/http/response"
	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"
	"go-survey-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	surveyUC  domain.SurveyUsecase
	profileUC domain.ProfileUsecase
}

func NewSurveyHandler(protected *gin.RouterGroup, surveyUC domain.SurveyUsecase, profileUC domain.ProfileUsecase) {
	handler := &SurveyHandler{surveyUC: surveyUC, profileUC: profileUC}

	protected.GET("/survey", handler.ShowForm)
	protected.POST("/survey", handler.Submit)
	protected.GET("/dashboard", handler.Dashboard)
}

type SurveyRequest struct {
	SoftSkills string `form:"soft_skills" binding:"required,notblank"`
	HardSkills string `form:"hard_skills" binding:"required,notblank"`
}

// ShowForm godoc
// @Summary      Survey form
// @Description  Describes the fields expected by POST /survey
// @Tags         survey
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /survey [get]
// @Security     SessionCookie
func (h *SurveyHandler) ShowForm(c *gin.Context) {
	response.Success(c, http.StatusOK, "Survey form", gin.H{
		"fields": []string{"soft_skills", "hard_skills"},
	})
}

// Submit godoc
// @Summary      Submit survey
// @Description  Stores the survey, runs the profile analysis synchronously and writes the result back, then redirects to the dashboard. The response waits for the full external round trip.
// @Tags         survey
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        soft_skills  formData  string  true  "Soft skills"
// @Param        hard_skills  formData  string  true  "Hard skills"
// @Success      303
// @Failure      400  {object}  response.Response
// @Router       /survey [post]
// @Security     SessionCookie
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req SurveyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.Validation(validation.FieldErrors(err)))
		return
	}

	userID := middleware.CurrentUserID(c)
	if _, err := h.surveyUC.SubmitSurvey(c.Request.Context(), userID, req.SoftSkills, req.HardSkills); err != nil {
		c.Error(err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Shows the user's latest survey with its profile analysis plus the full submission history, or an empty state when no survey exists yet.
// @Tags         survey
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /dashboard [get]
// @Security     SessionCookie
func (h *SurveyHandler) Dashboard(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	latest, err := h.surveyUC.LatestSurvey(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	demographics, err := h.profileUC.GetDemographics(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	history, err := h.surveyUC.ListSurveys(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	if latest == nil {
		// Zero surveys renders the empty state, not an error
		response.Success(c, http.StatusOK, "No surveys submitted yet", gin.H{
			"survey":       nil,
			"demographics": demographics,
			"history":      history,
		})
		return
	}

	response.Success(c, http.StatusOK, "Latest survey", gin.H{
		"survey":       latest,
		"demographics": demographics,
		"history":      history,
	})
}
