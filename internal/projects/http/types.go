package http

import (
	"context"
	"time"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/events"
)

// Service is the project service as seen by the handlers.
type Service interface {
	CreateProject(ctx context.Context, name, creatorID string) (*domain.Project, error)
	ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)
	AddMembers(ctx context.Context, actorID, projectID string, memberIDs []string) (*domain.Project, error)
	GetProject(ctx context.Context, actorID, projectID string) (*domain.Project, error)
	ReplaceFileTree(ctx context.Context, actorID, projectID string, tree domain.FileTree) (*domain.Project, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, projectID string) (events.Subscription, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc       Service
	sub       Subscriber
	keepAlive time.Duration
}

func New(svc Service, sub Subscriber) *Handler {
	useJSONFieldNames()
	if sub == nil {
		sub = events.NoopBus{}
	}
	return &Handler{svc: svc, sub: sub, keepAlive: 15 * time.Second}
}

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type addUsersRequest struct {
	ProjectID string   `json:"projectId" binding:"required"`
	Users     []string `json:"users" binding:"required,min=1,dive,required"`
}

type fileTreeRequest struct {
	ProjectID string         `json:"projectId" binding:"required"`
	FileTree  map[string]any `json:"fileTree" binding:"required"`
}
