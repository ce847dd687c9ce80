// Package redisstore provides a redis-backed implementation of
// [storage.Sessions]. Session expiry is delegated to redis key TTLs.
package redisstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stolasapp/tracker/internal/storage"
	"github.com/stolasapp/tracker/internal/storage/db"
)

// Sessions is a [storage.Sessions] backed by redis. Each session is stored
// under its own key, and a per-user set indexes the sessions of each user so
// they can be revoked together.
type Sessions struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// New creates a session store using client, namespacing keys with prefix.
func New(client redis.UniversalClient, prefix string) *Sessions {
	return &Sessions{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *Sessions) key(tokenHash []byte) string {
	return s.prefix + "session:" + hex.EncodeToString(tokenHash)
}

func (s *Sessions) userKey(userID uint64) string {
	return s.prefix + "user:" + strconv.FormatUint(userID, 10) + ":sessions"
}

// CreateSession satisfies [storage.Sessions].
func (s *Sessions) CreateSession(ctx context.Context, session db.Session) error {
	ttl := session.ExpireAt().Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	userKey := s.userKey(session.UserID)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(session.TokenHash), data, ttl)
		pipe.SAdd(ctx, userKey, hex.EncodeToString(session.TokenHash))
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

// GetSession satisfies [storage.Sessions].
func (s *Sessions) GetSession(ctx context.Context, tokenHash []byte) (db.Session, error) {
	var session db.Session
	data, err := s.redis.Get(ctx, s.key(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session, storage.ErrNotFound
	} else if err != nil {
		return session, err
	}
	if err = json.Unmarshal(data, &session); err != nil {
		return session, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// DeleteSession satisfies [storage.Sessions].
func (s *Sessions) DeleteSession(ctx context.Context, tokenHash []byte) error {
	session, err := s.GetSession(ctx, tokenHash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(tokenHash))
		pipe.SRem(ctx, s.userKey(session.UserID), hex.EncodeToString(tokenHash))
		return nil
	})
	return err
}

// DeleteUserSessions satisfies [storage.Sessions].
func (s *Sessions) DeleteUserSessions(ctx context.Context, userID uint64) error {
	userKey := s.userKey(userID)
	members, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(members)+1)
	for _, member := range members {
		keys = append(keys, s.prefix+"session:"+member)
	}
	keys = append(keys, userKey)
	return s.redis.Del(ctx, keys...).Err()
}

// DeleteExpiredSessions satisfies [storage.Sessions]. Redis evicts expired
// sessions on its own, so there is never anything to remove.
func (s *Sessions) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var _ storage.Sessions = (*Sessions)(nil)
