// Package session persists the per-shopper device state (cart, order id,
// delivery date, currency, auth token) in redis. Values are plain JSON with
// last-writer-wins semantics; concurrent tabs racing on the same session is
// an accepted limitation of a single-shopper flow.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/rs/zerolog/log"
)

// schemaVersion guards the persisted shape: when it increases, every stale
// session is cleared wholesale on first touch instead of being migrated.
const schemaVersion = 2

const sessionTTL = 30 * 24 * time.Hour

// pendingTTL bounds how long an action stays marked in-flight, so a hung
// request cannot lock a shopper out of retrying forever.
const pendingTTL = 30 * time.Second

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(sessionID, field string) string {
	return fmt.Sprintf("storefront:session:%s:%s", sessionID, field)
}

// ensureSchema clears the whole session when its stored schema version is
// older than the current one.
func (s *Store) ensureSchema(ctx context.Context, sessionID string) error {
	versionKey := key(sessionID, "version")

	stored, err := s.client.Get(ctx, versionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	version, _ := strconv.Atoi(stored)
	if version < schemaVersion {
		if version > 0 {
			log.Info().Str("session_id", sessionID).Int("stored", version).Msg("session schema outdated, clearing")
		}
		if err = s.Clear(ctx, sessionID); err != nil {
			return err
		}
	}

	return s.client.Set(ctx, versionKey, schemaVersion, sessionTTL).Err()
}

// GetState loads the persisted checkout state, returning a fresh one for a
// new or just-cleared session.
func (s *Store) GetState(ctx context.Context, sessionID string) (*checkout.State, error) {
	if err := s.ensureSchema(ctx, sessionID); err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, key(sessionID, "checkout")).Result()
	if errors.Is(err, redis.Nil) {
		return checkout.NewState(), nil
	}
	if err != nil {
		return nil, err
	}

	var state checkout.State
	if err = json.Unmarshal([]byte(raw), &state); err != nil {
		// Unreadable blobs are treated like a schema bump.
		log.Err(err).Str("session_id", sessionID).Msg("failed to decode session state, resetting")
		return checkout.NewState(), nil
	}
	return &state, nil
}

// SaveState persists the checkout state for the session.
func (s *Store) SaveState(ctx context.Context, sessionID string, state *checkout.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sessionID, "checkout"), raw, sessionTTL).Err()
}

// GetAuthToken returns the persisted backend bearer token, empty when the
// shopper is a guest.
func (s *Store) GetAuthToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, key(sessionID, "auth_token")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *Store) SaveAuthToken(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, key(sessionID, "auth_token"), token, sessionTTL).Err()
}

// AcquirePending marks an action in-flight for the session. Returns false
// when the same action is already pending, so duplicate submissions are
// rejected while distinct actions stay independent.
func (s *Store) AcquirePending(ctx context.Context, sessionID, action string) (bool, error) {
	return s.client.SetNX(ctx, key(sessionID, "pending:"+action), 1, pendingTTL).Result()
}

// ReleasePending clears an action's in-flight flag.
func (s *Store) ReleasePending(ctx context.Context, sessionID, action string) {
	if err := s.client.Del(ctx, key(sessionID, "pending:"+action)).Err(); err != nil {
		log.Err(err).Str("action", action).Msg("failed to release pending flag")
	}
}

// Clear removes every persisted value for the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	pattern := key(sessionID, "*")

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
