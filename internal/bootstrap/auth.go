package bootstrap

import (
	"context"
	"fmt"

	"github.com/Sohammathur/Chat-Application--AI/config"
	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
)

// NewVerifier returns the token verifier for AUTH_PROVIDER.
func NewVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderJWT:
		return auth.NewJWTVerifier(cfg.Auth.JWTSecret), nil
	case config.AuthProviderFirebase:
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}
