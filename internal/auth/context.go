package auth

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by RequireUser.
const (
	CtxUserID      = "user_id"
	CtxEmail       = "email"
	CtxToken       = "token"
	CtxTokenExpiry = "token_expiry"
)

// UserID returns the authenticated subject, or "" outside RequireUser.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func Email(c *gin.Context) string {
	return c.GetString(CtxEmail)
}

// Token returns the raw bearer token the request was authenticated with.
func Token(c *gin.Context) string {
	return c.GetString(CtxToken)
}

// TokenExpiry is zero when the token carried no expiry.
func TokenExpiry(c *gin.Context) time.Time {
	return c.GetTime(CtxTokenExpiry)
}
