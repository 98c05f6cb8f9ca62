package http

import "github.com/gin-gonic/gin"

// Register attaches user routes. rg must already require authentication.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.GET("/all", h.ListUsers)
	rg.GET("/logout", h.Logout)
}
