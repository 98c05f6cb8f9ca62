package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "auth:revoked:" // auth:revoked:{sha256(token)}
	// defaultRevocationTTL covers tokens that carry no expiry.
	defaultRevocationTTL = 24 * time.Hour
)

// RevocationList remembers logged-out tokens until they would have expired.
// A nil client disables revocation: nothing is ever revoked.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Enabled reports whether revocations are actually stored.
func (l *RevocationList) Enabled() bool {
	return l != nil && l.client != nil
}

func (l *RevocationList) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if l == nil || l.client == nil {
		return nil
	}

	ttl := defaultRevocationTTL
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	if err := l.client.Set(ctx, revokedKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (l *RevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}

	n, err := l.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
