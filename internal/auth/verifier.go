package auth

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified token says about its bearer.
type Identity struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
