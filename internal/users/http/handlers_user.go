package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/users"
)

// GetProfile returns the caller's directory entry.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized User"})
		return
	}

	user, err := h.dir.Get(c.Request.Context(), userID)
	if errors.Is(err, users.ErrUserNotFound) {
		// Not yet persisted; answer from the token.
		c.JSON(http.StatusOK, gin.H{"user": users.User{ID: userID, Email: auth.Email(c)}})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers returns every user except the caller, for the add-collaborator picker.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.dir.ListExcept(c.Request.Context(), auth.UserID(c))
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

// Logout revokes the presented token until it would have expired. Without a
// revocation store the cookie is still cleared, but the token stays valid and
// tokenRevoked is false.
func (h *Handler) Logout(c *gin.Context) {
	log := logging.FromContext(c.Request.Context())

	revoked := h.revoker != nil && h.revoker.Enabled()
	if revoked {
		if err := h.revoker.Revoke(c.Request.Context(), auth.Token(c), auth.TokenExpiry(c)); err != nil {
			log.Error("logout", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	} else {
		log.Warn("logout without revocation store; token remains valid until expiry")
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "tokenRevoked": revoked})
}
