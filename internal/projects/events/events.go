package events

import (
	"context"
	"errors"
	"time"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
)

// Event types published after successful project mutations.
const (
	TypeProjectCreated   = "project.created"
	TypeMembersAdded     = "project.members_added"
	TypeFileTreeReplaced = "project.file_tree_replaced"
)

// ErrBusDisabled is returned by Subscribe when no broker is configured.
var ErrBusDisabled = errors.New("event bus disabled")

// Event is the payload relayed to collaborators watching a project.
type Event struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId"`
	ActorID   string          `json:"actorId"`
	At        time.Time       `json:"at"`
	Project   *domain.Project `json:"project,omitempty"`
}

// New stamps an event for p with the current time.
func New(eventType, actorID string, p *domain.Project) Event {
	return Event{
		Type:      eventType,
		ProjectID: p.ID,
		ActorID:   actorID,
		At:        time.Now().UTC(),
		Project:   p,
	}
}

// Subscription delivers events for one project until Close is called.
// Events is closed once the subscription ends.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, projectID string) (Subscription, error)
}

// NoopBus drops published events and refuses subscriptions.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, Event) error { return nil }

func (NoopBus) Subscribe(context.Context, string) (Subscription, error) {
	return nil, ErrBusDisabled
}
