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

type DemographicsHandler struct {
	profileUC domain.ProfileUsecase
}

func NewDemographicsHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &DemographicsHandler{profileUC: profileUC}

	protected.GET("/demographics", handler.ShowForm)
	protected.POST("/demographics", handler.Submit)
}

type DemographicsRequest struct {
	Age      int    `form:"age" binding:"required,gte=18,lte=100"`
	Gender   string `form:"gender" binding:"required,oneof=Male Female Other"`
	Location string `form:"location" binding:"required,notblank"`
}

// ShowForm godoc
// @Summary      Demographics form
// @Description  Describes the fields expected by POST /demographics, plus the stored record if one exists
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /demographics [get]
// @Security     SessionCookie
func (h *DemographicsHandler) ShowForm(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	existing, err := h.profileUC.GetDemographics(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Demographics form", gin.H{
		"fields":       []string{"age", "gender", "location"},
		"genders":      domain.Genders,
		"demographics": existing,
	})
}

// Submit godoc
// @Summary      Submit demographics
// @Description  Validates and stores the one-per-user demographics record, then redirects to the survey form.
// @Tags         profile
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        age       formData  int     true  "Age (18-100)"
// @Param        gender    formData  string  true  "Gender (Male/Female/Other)"
// @Param        location  formData  string  true  "Location"
// @Success      303
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /demographics [post]
// @Security     SessionCookie
func (h *DemographicsHandler) Submit(c *gin.Context) {
	var req DemographicsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.Validation(validation.FieldErrors(err)))
		return
	}

	userID := middleware.CurrentUserID(c)
	if _, err := h.profileUC.SaveDemographics(c.Request.Context(), userID, req.Age, req.Gender, req.Location); err != nil {
		c.Error(err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/survey")
}
