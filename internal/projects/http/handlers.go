package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), req.Name, auth.UserID(c))
	if err != nil {
		writeError(c, "create project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.ListProjectsForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, "list projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

func (h *Handler) addUsers(c *gin.Context) {
	var req addUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
		return
	}

	p, err := h.svc.AddMembers(c.Request.Context(), auth.UserID(c), req.ProjectID, req.Users)
	if err != nil {
		writeError(c, "add users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), auth.UserID(c), c.Param("projectId"))
	if err != nil {
		writeError(c, "get project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) updateFileTree(c *gin.Context) {
	var req fileTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindErrors(err)})
		return
	}

	p, err := h.svc.ReplaceFileTree(c.Request.Context(), auth.UserID(c), req.ProjectID, domain.FileTree(req.FileTree))
	if err != nil {
		writeError(c, "update file tree", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

// writeError maps service errors to a status and a one-line message.
// Anything unrecognised is logged and reported as a bare 500.
func writeError(c *gin.Context, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, domain.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name already exists"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logging.FromContext(c.Request.Context()).Error(op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
