package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrResetTokenInvalid is returned for unknown, used or expired reset tokens
var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// TokenStore keeps short-lived auth state in Redis: revoked access token ids
// and one-time password reset tokens.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Blacklist revokes the access token with id tokenID for ttl
func (s *TokenStore) Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, "blacklist:"+tokenID, "1", ttl).Err()
}

// IsBlacklisted reports whether tokenID has been revoked
func (s *TokenStore) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, "blacklist:"+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveResetToken stores the hash of a reset token for userID until ttl elapses
func (s *TokenStore) SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, "reset:"+tokenHash, userID, ttl).Err()
}

// ConsumeResetToken returns the user a reset token was issued to and deletes it
func (s *TokenStore) ConsumeResetToken(ctx context.Context, tokenHash string) (string, error) {
	userID, err := s.client.GetDel(ctx, "reset:"+tokenHash).Result()
	if err == redis.Nil {
		return "", ErrResetTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
