package http

import (
	"context"
	"time"

	"github.com/Sohammathur/Chat-Application--AI/internal/users"
)

// Directory is the read side of the user store.
type Directory interface {
	Get(ctx context.Context, id string) (*users.User, error)
	ListExcept(ctx context.Context, id string) ([]users.User, error)
}

type Revoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	Enabled() bool
}

type Handler struct {
	dir     Directory
	revoker Revoker
}

func New(dir Directory, revoker Revoker) *Handler {
	return &Handler{dir: dir, revoker: revoker}
}
