package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/events"
)

type fakeRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	seq      int
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: map[string]*domain.Project{}}
}

func (r *fakeRepo) Create(_ context.Context, name, ownerID string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.projects {
		if p.Name == name {
			return nil, domain.ErrDuplicateName
		}
	}
	r.seq++
	p := &domain.Project{
		ID:       fmt.Sprintf("p%d", r.seq),
		Name:     name,
		Users:    domain.MembersFromIDs([]string{ownerID}),
		FileTree: domain.FileTree{},
		Version:  1,
	}
	r.projects[p.ID] = p
	return clone(p), nil
}

func (r *fakeRepo) ListByMember(_ context.Context, userID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Project
	for _, p := range r.projects {
		if p.HasMember(userID) {
			out = append(out, *clone(p))
		}
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func (r *fakeRepo) AddMembers(_ context.Context, id string, memberIDs []string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Users = domain.MembersFromIDs(domain.AppendMissing(p.MemberIDs(), memberIDs))
	p.Version++
	return clone(p), nil
}

func (r *fakeRepo) ReplaceFileTree(_ context.Context, id string, tree domain.FileTree) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.FileTree = tree
	p.Version++
	return clone(p), nil
}

func clone(p *domain.Project) *domain.Project {
	c := *p
	c.Users = append([]domain.Member(nil), p.Users...)
	return &c
}

type fakeDirectory struct {
	emails map[string]string
	err    error
	calls  int
}

func (d *fakeDirectory) Emails(_ context.Context, ids []string) (map[string]string, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	out := map[string]string{}
	for _, id := range ids {
		if e, ok := d.emails[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func newTestService(opts Options) (*ProjectService, *fakeRepo, *recordingPublisher) {
	repo := newFakeRepo()
	dir := &fakeDirectory{emails: map[string]string{"A": "a@example.com", "B": "b@example.com"}}
	pub := &recordingPublisher{}
	return NewProjectService(repo, dir, pub, opts), repo, pub
}

func TestProjectService_Scenario(t *testing.T) {
	svc, _, pub := newTestService(Options{})
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "Alpha", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, p.MemberIDs())

	_, err = svc.CreateProject(ctx, "Alpha", "B")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	p, err = svc.AddMembers(ctx, "A", p.ID, []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.MemberIDs())

	tree := domain.FileTree{"app.js": map[string]any{"file": map[string]any{"contents": "console.log('hi')"}}}
	_, err = svc.ReplaceFileTree(ctx, "B", p.ID, tree)
	require.NoError(t, err)

	got, err := svc.GetProject(ctx, "B", p.ID)
	require.NoError(t, err)
	assert.Equal(t, tree, got.FileTree)
	assert.Equal(t, []domain.Member{{ID: "A", Email: "a@example.com"}, {ID: "B", Email: "b@example.com"}}, got.Users)

	require.Len(t, pub.events, 3)
	assert.Equal(t, events.TypeProjectCreated, pub.events[0].Type)
	assert.Equal(t, events.TypeMembersAdded, pub.events[1].Type)
	assert.Equal(t, events.TypeFileTreeReplaced, pub.events[2].Type)
	assert.Equal(t, "B", pub.events[2].ActorID)
}

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("trims name", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "  Alpha  ", "A")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", p.Name)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc, _, pub := newTestService(Options{})
		_, err := svc.CreateProject(ctx, "   ", "A")
		assert.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "name", verr.Fields[0].Field)
		assert.Empty(t, pub.events)
	})

	t.Run("publish failure does not fail create", func(t *testing.T) {
		svc, _, pub := newTestService(Options{})
		pub.err = errors.New("redis down")

		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		svc, repo, _ := newTestService(Options{})
		repo.err = errors.New("connection refused")

		_, err := svc.CreateProject(ctx, "Alpha", "A")
		assert.EqualError(t, err, "connection refused")
	})
}

func TestProjectService_AddMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent for repeated id", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		first, err := svc.AddMembers(ctx, "A", p.ID, []string{"B"})
		require.NoError(t, err)
		second, err := svc.AddMembers(ctx, "A", p.ID, []string{"B"})
		require.NoError(t, err)

		assert.Equal(t, first.MemberIDs(), second.MemberIDs())
	})

	t.Run("collapses duplicate input", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		got, err := svc.AddMembers(ctx, "A", p.ID, []string{"B", " B ", "A", "C", "C"})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, got.MemberIDs())
	})

	t.Run("unknown project", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.AddMembers(ctx, "A", "missing", []string{"B"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty member list", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.AddMembers(ctx, "A", "p1", []string{" ", ""})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing project id", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.AddMembers(ctx, "A", "", []string{"B"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("blank project id is not found", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.AddMembers(ctx, "A", "   ", []string{"B"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent adds keep every member", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = svc.AddMembers(ctx, "A", p.ID, []string{fmt.Sprintf("u%d", i)})
			}(i)
		}
		wg.Wait()

		got, err := svc.GetProject(ctx, "A", p.ID)
		require.NoError(t, err)
		assert.Len(t, got.Users, 21)
	})
}

func TestProjectService_ReplaceFileTree(t *testing.T) {
	ctx := context.Background()

	t.Run("second replace leaves no residue", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		t1 := domain.FileTree{"old.js": map[string]any{"file": map[string]any{"contents": "1"}}}
		t2 := domain.FileTree{"new.js": map[string]any{"file": map[string]any{"contents": "2"}}}

		_, err = svc.ReplaceFileTree(ctx, "A", p.ID, t1)
		require.NoError(t, err)
		got, err := svc.ReplaceFileTree(ctx, "A", p.ID, t2)
		require.NoError(t, err)

		assert.Equal(t, t2, got.FileTree)
		assert.NotContains(t, got.FileTree, "old.js")
	})

	t.Run("empty tree is allowed", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		got, err := svc.ReplaceFileTree(ctx, "A", p.ID, domain.FileTree{})
		require.NoError(t, err)
		assert.Empty(t, got.FileTree)
	})

	t.Run("nil tree rejected", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.ReplaceFileTree(ctx, "A", "p1", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown project", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.ReplaceFileTree(ctx, "A", "missing", domain.FileTree{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get unknown project", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.GetProject(ctx, "A", "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get whitespace id is not found", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.GetProject(ctx, "A", " ")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("get empty id is a validation error", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.GetProject(ctx, "A", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("list for user without memberships is empty", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		_, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		got, err := svc.ListProjectsForUser(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("list resolves emails and leaves unknown users blank", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)
		_, err = svc.AddMembers(ctx, "A", p.ID, []string{"ghost"})
		require.NoError(t, err)

		got, err := svc.ListProjectsForUser(ctx, "A")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []domain.Member{{ID: "A", Email: "a@example.com"}, {ID: "ghost"}}, got[0].Users)
	})

	t.Run("directory failure surfaces", func(t *testing.T) {
		repo := newFakeRepo()
		dir := &fakeDirectory{err: errors.New("users table gone")}
		svc := NewProjectService(repo, dir, nil, Options{})

		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		_, err = svc.GetProject(ctx, "A", p.ID)
		assert.ErrorContains(t, err, "users table gone")
	})
}

func TestProjectService_EnforceMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled lets any caller act", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		_, err = svc.GetProject(ctx, "stranger", p.ID)
		assert.NoError(t, err)
		_, err = svc.AddMembers(ctx, "stranger", p.ID, []string{"stranger"})
		assert.NoError(t, err)
	})

	t.Run("enabled rejects non-members", func(t *testing.T) {
		svc, _, pub := newTestService(Options{EnforceMembership: true})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		_, err = svc.GetProject(ctx, "stranger", p.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = svc.AddMembers(ctx, "stranger", p.ID, []string{"stranger"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = svc.ReplaceFileTree(ctx, "stranger", p.ID, domain.FileTree{})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		assert.Len(t, pub.events, 1)
	})

	t.Run("enabled allows members and reports missing projects", func(t *testing.T) {
		svc, _, _ := newTestService(Options{EnforceMembership: true})
		p, err := svc.CreateProject(ctx, "Alpha", "A")
		require.NoError(t, err)

		_, err = svc.AddMembers(ctx, "A", p.ID, []string{"B"})
		require.NoError(t, err)
		_, err = svc.ReplaceFileTree(ctx, "B", p.ID, domain.FileTree{})
		require.NoError(t, err)

		_, err = svc.AddMembers(ctx, "A", "missing", []string{"B"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
