package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/mawahib/portal/internal/config"
	"github.com/mawahib/portal/internal/model"
)

// RedisStore persists sessions as JSON values with a TTL. When the API token
// is a JWT carrying an exp claim, the key never outlives the token.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore keeping sessions for at most ttl.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, id string) (model.Session, error) {
	if id == "" {
		return model.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, config.CacheKey.SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, sess model.Session) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.IsAuthenticated() {
		return ErrIncompleteSession
	}

	ttl := s.ttlFor(sess.Token)
	if ttl <= 0 {
		return ErrTokenExpired
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, config.CacheKey.SessionKey(id), data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, config.CacheKey.SessionKey(id)).Err()
}

// Ping checks that redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ttlFor caps the configured TTL at the token's exp claim. The token is read
// without verification; the API remains the only authority on its validity.
func (s *RedisStore) ttlFor(token string) time.Duration {
	exp, ok := TokenExpiry(token)
	if !ok {
		return s.ttl
	}
	if until := exp.Sub(s.now()); until < s.ttl {
		return until
	}
	return s.ttl
}

// TokenExpiry returns the exp claim of a JWT without verifying its signature.
func TokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
