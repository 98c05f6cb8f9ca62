package bootstrap

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohammathur/Chat-Application--AI/config"
	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
)

func TestSetGinMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetGinMode("development")
	assert.Equal(t, gin.DebugMode, gin.Mode())

	SetGinMode("test")
	assert.Equal(t, gin.TestMode, gin.Mode())
}

func TestNewVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("jwt", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{Provider: config.AuthProviderJWT, JWTSecret: "s3cret"}}
		v, err := NewVerifier(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &auth.JWTVerifier{}, v)
	})

	t.Run("firebase without credentials", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{Provider: config.AuthProviderFirebase}}
		_, err := NewVerifier(ctx, cfg)
		assert.ErrorContains(t, err, "FIREBASE_CREDENTIALS_PATH")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{Provider: "saml"}}
		_, err := NewVerifier(ctx, cfg)
		assert.ErrorContains(t, err, "saml")
	})
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	_, err := OpenStores(context.Background(), cfg)
	assert.ErrorContains(t, err, "sqlite")
}
