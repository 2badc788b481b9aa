package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore implements Store on top of Redis. Records are stored as JSON
// under "session:<id>" with a TTL mirroring the expiry deadline, so Redis
// itself performs the physical reaping.
type RedisStore struct {
	client      redis.UniversalClient
	maxInactive time.Duration
}

// NewRedisStore creates a Redis-backed session store. New sessions get the
// given default inactivity timeout.
func NewRedisStore(client redis.UniversalClient, maxInactive time.Duration) *RedisStore {
	return &RedisStore{
		client:      client,
		maxInactive: maxInactive,
	}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Create allocates a new session and persists it immediately.
func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	sess := NewSession(r.maxInactive)
	if err := r.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// FindByID retrieves a live session by id. Redis TTL usually reaps expired
// records before they are observed, but the lazy check still applies in case
// the record outlived its logical deadline.
func (r *RedisStore) FindByID(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	if sess.IsExpired() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = r.client.Del(ctx, redisKey(id)).Err()
		}()
		return nil, ErrSessionNotFound
	}

	return &sess, nil
}

// Save upserts the full record by id, recomputing the expiry deadline first.
func (r *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidSession
	}

	sess.ExpiresAt = sess.expiryFrom(sess.LastAccessedAt)
	return r.write(ctx, sess)
}

// DeleteByID removes the record. Deleting an absent id is not an error.
func (r *RedisStore) DeleteByID(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Touch updates the last accessed time and re-persists with a fresh TTL.
func (r *RedisStore) Touch(ctx context.Context, id string, at time.Time) error {
	sess, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	sess.Touch(at)
	return r.write(ctx, sess)
}

// DeleteExpired is a no-op: Redis TTL performs physical reaping.
func (r *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (r *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	var ttl time.Duration
	if sess.MaxInactiveInterval >= 0 {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			// Already past the deadline, delete instead of persisting.
			return r.DeleteByID(ctx, sess.ID)
		}
	}

	if err := r.client.Set(ctx, redisKey(sess.ID), data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
