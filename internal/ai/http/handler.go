package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/ai"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
)

type Handler struct {
	gen ai.Generator
}

func New(gen ai.Generator) *Handler {
	return &Handler{gen: gen}
}

// Register attaches AI routes. rg must already require authentication.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/get-result", h.getResult)
}

// getResult returns the model's raw text. The body is whatever JSON the
// model produced; callers parse it themselves.
func (h *Handler) getResult(c *gin.Context) {
	prompt := strings.TrimSpace(c.Query("prompt"))
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"field": "prompt", "message": "prompt is required"}}})
		return
	}

	result, err := h.gen.GenerateResult(c.Request.Context(), prompt)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logging.FromContext(c.Request.Context()).Error("generate result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.String(http.StatusOK, result)
}
