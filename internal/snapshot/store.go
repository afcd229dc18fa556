// Package snapshot persists per-session engine state in Redis. Writes are
// best-effort and reads degrade: a missing, corrupt or stale snapshot is
// reported as absent, never as a failure the caller must handle specially.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proftrain/patientsim/internal/engine"
)

// MaxAge is how long a snapshot stays valid. The Redis TTL matches it, and
// the stored timestamp is checked again on load in case the entry outlived
// its TTL (e.g. restored from a dump).
const MaxAge = 24 * time.Hour

const keyPrefix = "patientsim:session:"

// Store reads and writes session snapshots.
type Store struct {
	client *redis.Client
	logger *slog.Logger
	maxAge time.Duration
	now    func() time.Time
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, redisURL string, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client, logger: logger, maxAge: MaxAge, now: time.Now}, nil
}

// NewWithClient wraps an existing client; used by tests with miniredis.
func NewWithClient(client *redis.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger, maxAge: MaxAge, now: time.Now}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func key(sessionID string) string { return keyPrefix + sessionID }

// Save writes the snapshot with the expiry TTL.
func (s *Store) Save(ctx context.Context, m engine.Memento) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, key(m.SessionID), payload, s.maxAge).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// SaveAsync fires the write in the background and only logs failures. The
// in-memory session is authoritative; losing a snapshot write loses nothing
// but resumability.
func (s *Store) SaveAsync(m engine.Memento) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Save(ctx, m); err != nil {
			s.logger.Warn("snapshot write failed", "session_id", m.SessionID, "error", err)
		}
	}()
}

// Load fetches a snapshot. The second return is false when there is nothing
// usable: no entry, undecodable payload, or a snapshot older than MaxAge
// (stale ones are deleted on sight).
func (s *Store) Load(ctx context.Context, sessionID string) (engine.Memento, bool, error) {
	raw, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return engine.Memento{}, false, nil
	}
	if err != nil {
		return engine.Memento{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var m engine.Memento
	if err := json.Unmarshal(raw, &m); err != nil {
		s.logger.Warn("snapshot corrupt, discarding", "session_id", sessionID, "error", err)
		return engine.Memento{}, false, nil
	}

	if s.now().Sub(m.SavedAt) > s.maxAge {
		s.logger.Info("snapshot expired, discarding", "session_id", sessionID, "saved_at", m.SavedAt)
		_ = s.client.Del(ctx, key(sessionID)).Err()
		return engine.Memento{}, false, nil
	}
	return m, true, nil
}

// Delete removes a session's snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}
