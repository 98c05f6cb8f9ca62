package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
)

const unauthorizedMessage = "Unauthorized User"

// Directory records every authenticated user so member emails can be
// resolved later.
type Directory interface {
	EnsureUser(ctx context.Context, id, email string) error
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RequireUser authenticates the request from the "token" cookie or the
// bearer Authorization header. revoked and dir may be nil.
func RequireUser(verifier auth.Verifier, revoked RevocationChecker, dir Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logging.FromContext(ctx)

		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, token)
			if err != nil {
				log.Error("revocation check failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			if isRevoked {
				abortUnauthorized(c)
				return
			}
		}

		id, err := verifier.Verify(ctx, token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		if dir != nil {
			if err := dir.EnsureUser(ctx, id.Subject, id.Email); err != nil {
				log.Error("ensure user failed", zap.String("user_id", id.Subject), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}

		c.Set(auth.CtxUserID, id.Subject)
		c.Set(auth.CtxEmail, id.Email)
		c.Set(auth.CtxToken, token)
		if !id.ExpiresAt.IsZero() {
			c.Set(auth.CtxTokenExpiry, id.ExpiresAt)
		}
		c.Request = c.Request.WithContext(logging.WithContext(ctx, log.With(zap.String("user_id", id.Subject))))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage})
}

// extractToken prefers the cookie, then the bearer header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
