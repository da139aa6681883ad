package sessionstore

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/auth"
)

const (
	sessionKeyPrefix = "shule:session:"
	userKeyPrefix    = "shule:user-sessions:"
)

// RedisStore persists sessions in redis with a TTL matching the session
// expiry, plus a per-user index set so that all of a user's sessions can be
// revoked at once.
type RedisStore struct {
	client *redis.Client
}

var _ auth.Store = (*RedisStore)(nil)

func NewRedisStore(conf core.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "pinging redis")
}

func (s *RedisStore) SaveSession(ctx context.Context, key string, session auth.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "marshaling session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+key, data, ttl)
	pipe.SAdd(ctx, userKey(session.UserID), key)
	pipe.Expire(ctx, userKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "saving session")
}

func (s *RedisStore) GetSession(ctx context.Context, key string) (auth.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return auth.Session{}, auth.ErrNoSession
		}
		return auth.Session{}, errors.Wrap(err, "getting session")
	}

	var session auth.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return auth.Session{}, errors.Wrap(err, "unmarshaling session")
	}
	return session, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, key string) error {
	session, err := s.GetSession(ctx, key)
	if err == nil {
		s.client.SRem(ctx, userKey(session.UserID), key)
	}
	return errors.Wrap(s.client.Del(ctx, sessionKeyPrefix+key).Err(), "deleting session")
}

func (s *RedisStore) DeleteUserSessions(ctx context.Context, userID int) error {
	keys, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, "listing user sessions")
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, sessionKeyPrefix+key)
	}
	pipe.Del(ctx, userKey(userID))
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "deleting user sessions")
}

func userKey(userID int) string {
	return userKeyPrefix + strconv.Itoa(userID)
}
