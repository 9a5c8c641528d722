package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/providence-asso/providence/internal/shared"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore keeps bearer tokens in Redis so revocation takes effect
// immediately across all instances.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a token store.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates an opaque token bound to the identity.
func (s *TokenStore) Issue(ctx context.Context, identity shared.Identity) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, tokenKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve looks up the identity behind a token. Unknown or expired
// tokens come back as ErrUnauthorized.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*shared.Identity, error) {
	payload, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("auth: resolve token: %w", err)
	}
	var identity shared.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("auth: decode token payload: %w", err)
	}
	return &identity, nil
}

// Revoke removes a token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}
