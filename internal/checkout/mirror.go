package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionMirror persists checkout identifiers across page reloads. It is a
// best-effort secondary copy, never authoritative.
type SessionMirror interface {
	Load(ctx context.Context, sessionID string) (checkoutID, checkoutURL string, err error)
	Save(ctx context.Context, sessionID, checkoutID, checkoutURL string) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNoCheckout = errors.New("no persisted checkout")

func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{client: client, ttl: 24 * time.Hour}
}

type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func (m *RedisMirror) Load(ctx context.Context, sessionID string) (string, string, error) {
	checkoutID, err := m.client.Get(ctx, idKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", ErrNoCheckout
	}
	if err != nil {
		return "", "", fmt.Errorf("redis get failed: %w", err)
	}

	checkoutURL, err := m.client.Get(ctx, urlKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", ErrNoCheckout
	}
	if err != nil {
		return "", "", fmt.Errorf("redis get failed: %w", err)
	}

	return checkoutID, checkoutURL, nil
}

func (m *RedisMirror) Save(ctx context.Context, sessionID, checkoutID, checkoutURL string) error {
	if err := m.client.Set(ctx, idKey(sessionID), checkoutID, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if err := m.client.Set(ctx, urlKey(sessionID), checkoutURL, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (m *RedisMirror) Delete(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, idKey(sessionID), urlKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Key names mirror the SPA's local storage layout.
func idKey(sessionID string) string  { return fmt.Sprintf("session:%s:checkoutId", sessionID) }
func urlKey(sessionID string) string { return fmt.Sprintf("session:%s:checkoutUrl", sessionID) }
