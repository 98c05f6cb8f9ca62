package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohammathur/Chat-Application--AI/config"
)

type stubIDTokens struct {
	token *fbauth.Token
	err   error
}

func (s stubIDTokens) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("maps uid and email", func(t *testing.T) {
		v := NewFirebaseVerifier(stubIDTokens{token: &fbauth.Token{
			UID:     "fb-uid",
			Expires: exp,
			Claims:  map[string]interface{}{"email": "fb@example.com"},
		}})

		id, err := v.Verify(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "fb-uid", id.Subject)
		assert.Equal(t, "fb@example.com", id.Email)
		assert.Equal(t, exp, id.ExpiresAt.Unix())
	})

	t.Run("verification error", func(t *testing.T) {
		v := NewFirebaseVerifier(stubIDTokens{err: errors.New("ID token has expired")})
		_, err := v.Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestInitializeFirebase_RequiresCredentials(t *testing.T) {
	_, err := InitializeFirebase(context.Background(), &config.FirebaseConfig{})
	assert.EqualError(t, err, "FIREBASE_CREDENTIALS_PATH is required")
}
