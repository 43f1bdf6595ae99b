// Package session keeps authenticated browser sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civicpulse/portal/internal/ids"
	"civicpulse/portal/internal/models"
)

const keyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

// Session binds a browser to an authenticated identity.
type Session struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Role      models.UserRole `json:"role"`
	District  string          `json:"district"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Session) IsOfficial() bool {
	return s != nil && s.Role == models.UserRoleOfficial
}

// Identity is what a session is created from.
type Identity struct {
	UserID   int64
	Role     models.UserRole
	District string
}

func IdentityOf(user models.User) Identity {
	return Identity{UserID: user.ID, Role: user.Role, District: user.District}
}

// RedisStore stores one JSON record per session with an idle TTL that is
// pushed forward by Touch.
type RedisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		idleTTL: idleTTL,
	}
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, identity Identity) (Session, error) {
	sess := Session{
		ID:        ids.New(),
		UserID:    identity.UserID,
		Role:      identity.Role,
		District:  identity.District,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(sess.ID), payload, s.idleTTL).Result()
	if err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return Session{}, fmt.Errorf("save session: id collision %s", sess.ID)
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// Touch extends the idle TTL of a live session.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, s.key(id), s.idleTTL).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
