package middleware

import (
	"net/http"
	"net/url"

	"go-survey-backend/internal/domain"
	"go-survey-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "auth_token"

// SessionMiddleware gates protected routes. An anonymous request is redirected
// to the login form with the originally requested path preserved in the next
// parameter so it can be resumed after authentication. The session is resolved
// against the user store on every request; a token whose user no longer exists
// is treated as anonymous.
func SessionMiddleware(tokens *auth.TokenManager, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			redirectToLogin(c)
			return
		}

		userID, _, err := tokens.Validate(cookie)
		if err != nil {
			redirectToLogin(c)
			return
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), userID)
		if err != nil {
			// Stale session: user deleted after the token was issued
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			redirectToLogin(c)
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUsername), user.Username)

		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := "/login?next=" + url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}

// CurrentUserID reads the authenticated user id set by SessionMiddleware.
func CurrentUserID(c *gin.Context) int64 {
	id, _ := c.Get(string(domain.KeyUserID))
	userID, _ := id.(int64)
	return userID
}
