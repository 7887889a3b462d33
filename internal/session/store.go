package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const (
	sessionPrefix   = "session:"
	userPrefix      = "user:"
	envelopeVersion = 1
)

// envelope wraps cached records so the layout can change without reading
// stale shapes; any other version is a cache miss.
type envelope struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// Store keeps session -> user id mappings and a durable per-user cache.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------

func (s *Store) Open(ctx context.Context, sid, userID string) error {
	return s.rdb.Set(ctx, sessionPrefix+sid, userID, s.ttl).Err()
}

func (s *Store) Lookup(ctx context.Context, sid string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", httperr.ErrBusiness(httperr.CodeUnauthenticated)
	}
	return userID, err
}

func (s *Store) Close(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionPrefix+sid).Err()
}

// --------------------------------------------------
// User cache
// --------------------------------------------------

func (s *Store) CacheUser(ctx context.Context, u *models.User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{Version: envelopeVersion, Payload: payload})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, userPrefix+u.ID, raw, s.ttl).Err()
}

func (s *Store) CachedUser(ctx context.Context, userID string) (*models.User, bool, error) {
	raw, err := s.rdb.Get(ctx, userPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version != envelopeVersion {
		return nil, false, nil
	}

	var u models.User
	if err := json.Unmarshal(env.Payload, &u); err != nil {
		return nil, false, nil
	}
	return &u, true, nil
}

func (s *Store) DropUser(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, userPrefix+userID).Err()
}
