package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mindscreen/internal/model"
)

// AlertGuard hands out at most one alert slot per session and alert tier
type AlertGuard interface {
	// Acquire returns true for the first caller of a (session, tier) pair within the TTL
	Acquire(ctx context.Context, sessionID string, tier model.AlertTier) (bool, error)
	// Release frees a slot whose alert could not be written, so a later round may retry
	Release(ctx context.Context, sessionID string, tier model.AlertTier) error
}

type alertGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAlertGuard creates a Redis-backed alert guard
func NewAlertGuard(client *redis.Client, ttl time.Duration) AlertGuard {
	return &alertGuard{
		client: client,
		ttl:    ttl,
	}
}

func (g *alertGuard) key(sessionID string, tier model.AlertTier) string {
	return fmt.Sprintf("alert:%s:%s", sessionID, tier)
}

func (g *alertGuard) Acquire(ctx context.Context, sessionID string, tier model.AlertTier) (bool, error) {
	return g.client.SetNX(ctx, g.key(sessionID, tier), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *alertGuard) Release(ctx context.Context, sessionID string, tier model.AlertTier) error {
	return g.client.Del(ctx, g.key(sessionID, tier)).Err()
}
