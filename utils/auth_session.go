package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when a token has no live session, e.g. after logout.
var ErrSessionNotFound = errors.New("auth session not found")

// AuthSession is the server-side record of an issued access token, keyed by the token hash.
type AuthSession struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore persists auth sessions in Redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save stores the session until its expiry.
func (s *SessionStore) Save(ctx context.Context, tokenHash string, session AuthSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("auth session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := s.client.Set(ctx, AuthCachePrefix+tokenHash, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// Get returns ErrSessionNotFound when the token was revoked or never issued.
func (s *SessionStore) Get(ctx context.Context, tokenHash string) (*AuthSession, error) {
	data, err := s.client.Get(ctx, AuthCachePrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// Delete revokes the session.
func (s *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	return s.client.Del(ctx, AuthCachePrefix+tokenHash).Err()
}
