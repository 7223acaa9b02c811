package v1

import (
	"net/http"
	"strings"

	"go-survey-backend/config"
	"go-survey-backend/internal/delivery/http/middleware"
	"go-survey-backend/internal/delivery/http/response"
	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/apperror"
	"go-survey-backend/pkg/auth"
	"go-survey-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	tokens *auth.TokenManager
	config *config.Config
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, tokens *auth.TokenManager, cfg *config.Config, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC: authUC,
		tokens: tokens,
		config: cfg,
	}

	// Public Routes
	public.GET("/register", handler.ShowRegister)
	public.POST("/register", handler.Register)
	public.GET("/login", handler.ShowLogin)
	public.POST("/login", loginLimiter, handler.Login)

	// Protected Routes
	protected.GET("/logout", handler.Logout)
}

type RegisterRequest struct {
	Username        string `form:"username" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required"`
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// ShowRegister godoc
// @Summary      Registration form
// @Description  Describes the fields expected by POST /register
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /register [get]
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	response.Success(c, http.StatusOK, "Registration form", gin.H{
		"fields": []string{"username", "email", "password", "password_confirm"},
	})
}

// Register godoc
// @Summary      User Registration
// @Description  Register a new user with username, email and password. Redirects to /login on success.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username          formData  string  true  "Username"
// @Param        email             formData  string  true  "Email"
// @Param        password          formData  string  true  "Password"
// @Param        password_confirm  formData  string  true  "Password confirmation"
// @Success      303
// @Failure      400  {object}  response.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.Validation(validation.FieldErrors(err)))
		return
	}

	if _, err := h.authUC.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		c.Error(err)
		return
	}

	// Account created, send the user to the login form
	c.Redirect(http.StatusSeeOther, "/login")
}

// ShowLogin godoc
// @Summary      Login form
// @Description  Describes the fields expected by POST /login
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /login [get]
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	response.Success(c, http.StatusOK, "Login form", gin.H{
		"fields": []string{"username", "password"},
		"next":   c.Query("next"),
	})
}

// Login godoc
// @Summary      User Login
// @Description  Authenticate with username and password. Sets the session cookie and redirects to the preserved next target or home.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true   "Username"
// @Param        password  formData  string  true   "Password"
// @Param        next      formData  string  false  "Redirect target after login"
// @Success      303
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.Validation(validation.FieldErrors(err)))
		return
	}

	user, err := h.authUC.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Username)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	maxAge := int(h.tokens.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", h.config.CookieSecure, true)

	next := req.Next
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusSeeOther, safeNext(next))
}

// Logout godoc
// @Summary      Logout
// @Description  Clears the session cookie and redirects home
// @Tags         auth
// @Success      303
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.config.CookieSecure, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// safeNext keeps the post-login redirect on this site. Only relative paths
// are honored; anything else falls back to home.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
