package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "token:"
	tokenTTL       = 24 * time.Hour
)

// Store manages opaque bearer tokens in Redis. Tokens are revocable:
// logout deletes the key and the token is dead everywhere immediately.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new token store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = tokenTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Create issues a new token for the user and returns it.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	key := tokenKeyPrefix + token
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// GetUserID resolves a token to its user ID. ok is false for unknown,
// expired or revoked tokens.
func (s *Store) GetUserID(ctx context.Context, token string) (int64, bool) {
	v, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Revoke deletes a token.
func (s *Store) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, tokenKeyPrefix+token).Err()
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
