package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/events"
)

// Repository is the document store accessor the service writes through.
// AddMembers and ReplaceFileTree must be atomic in the store.
type Repository interface {
	Create(ctx context.Context, name, ownerID string) (*domain.Project, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	AddMembers(ctx context.Context, id string, memberIDs []string) (*domain.Project, error)
	ReplaceFileTree(ctx context.Context, id string, tree domain.FileTree) (*domain.Project, error)
}

// MemberDirectory resolves member ids to their email address. Unknown ids
// are simply absent from the result.
type MemberDirectory interface {
	Emails(ctx context.Context, ids []string) (map[string]string, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

type Options struct {
	// EnforceMembership rejects reads and writes by callers outside the
	// project's member list with domain.ErrForbidden.
	EnforceMembership bool
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Repository
	dir  MemberDirectory
	pub  Publisher
	opts Options
}

// NewProjectService creates a new project service. pub may be nil.
func NewProjectService(repo Repository, dir MemberDirectory, pub Publisher, opts Options) *ProjectService {
	if pub == nil {
		pub = events.NoopBus{}
	}
	return &ProjectService{
		repo: repo,
		dir:  dir,
		pub:  pub,
		opts: opts,
	}
}

// CreateProject creates a project whose only member is creatorID.
func (s *ProjectService) CreateProject(ctx context.Context, name, creatorID string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "Name is required")
	}
	if creatorID == "" {
		return nil, domain.NewValidationError("userId", "User is required")
	}

	p, err := s.repo.Create(ctx, name, creatorID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeProjectCreated, creatorID, p))
	return p, nil
}

// ListProjectsForUser returns every project userID belongs to, with member
// emails resolved. A user without projects gets an empty slice.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	projects, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}

	ptrs := make([]*domain.Project, 0, len(projects))
	for i := range projects {
		ptrs = append(ptrs, &projects[i])
	}
	if err := s.resolveMembers(ctx, ptrs...); err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMembers adds every id in memberIDs that is not yet a member.
// Repeated ids in the input are collapsed.
func (s *ProjectService) AddMembers(ctx context.Context, actorID, projectID string, memberIDs []string) (*domain.Project, error) {
	projectID, err := projectKey(projectID)
	if err != nil {
		return nil, err
	}
	ids := domain.NormalizeMemberIDs(memberIDs)
	if len(ids) == 0 {
		return nil, domain.NewValidationError("users", "Users must be a non-empty array of ids")
	}

	if err := s.authorize(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	p, err := s.repo.AddMembers(ctx, projectID, ids)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeMembersAdded, actorID, p))
	return p, nil
}

// GetProject loads one project with member emails resolved.
func (s *ProjectService) GetProject(ctx context.Context, actorID, projectID string) (*domain.Project, error) {
	projectID, err := projectKey(projectID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if s.opts.EnforceMembership && !p.HasMember(actorID) {
		return nil, domain.ErrForbidden
	}

	if err := s.resolveMembers(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReplaceFileTree overwrites the project's file tree. The tree is stored as
// given; nothing from the previous tree survives.
func (s *ProjectService) ReplaceFileTree(ctx context.Context, actorID, projectID string, tree domain.FileTree) (*domain.Project, error) {
	projectID, err := projectKey(projectID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, domain.NewValidationError("fileTree", "File tree is required")
	}

	if err := s.authorize(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	p, err := s.repo.ReplaceFileTree(ctx, projectID, tree)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeFileTreeReplaced, actorID, p))
	return p, nil
}

// projectKey rejects a missing id. An id that is blank after trimming can
// never match a stored project, so it is reported as not found.
func projectKey(id string) (string, error) {
	if id == "" {
		return "", domain.NewValidationError("projectId", "Project ID is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// authorize checks membership before a write when enforcement is on. It
// returns domain.ErrNotFound for unknown projects.
func (s *ProjectService) authorize(ctx context.Context, actorID, projectID string) error {
	if !s.opts.EnforceMembership {
		return nil
	}
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !p.HasMember(actorID) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ProjectService) resolveMembers(ctx context.Context, projects ...*domain.Project) error {
	if s.dir == nil || len(projects) == 0 {
		return nil
	}

	var ids []string
	for _, p := range projects {
		ids = append(ids, p.MemberIDs()...)
	}
	ids = domain.NormalizeMemberIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	emails, err := s.dir.Emails(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve members: %w", err)
	}

	for _, p := range projects {
		for i := range p.Users {
			p.Users[i].Email = emails[p.Users[i].ID]
		}
	}
	return nil
}

func (s *ProjectService) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("failed to publish project event",
			zap.String("type", ev.Type),
			zap.String("project_id", ev.ProjectID),
			zap.Error(err))
	}
}
