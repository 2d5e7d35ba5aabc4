package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"mindscreen/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAlertGuardAcquireOnce(t *testing.T) {
	mr, client := newRedis(t)
	guard := NewAlertGuard(client, time.Hour)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "s1", model.AlertElevated)
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}
	ok, err = guard.Acquire(ctx, "s1", model.AlertElevated)
	if err != nil || ok {
		t.Fatalf("second acquire = %v, %v; want false", ok, err)
	}

	// a different tier of the same session is a separate slot
	ok, _ = guard.Acquire(ctx, "s1", model.AlertCritical)
	if !ok {
		t.Fatal("critical tier should be acquirable")
	}

	mr.FastForward(2 * time.Hour)
	ok, _ = guard.Acquire(ctx, "s1", model.AlertElevated)
	if !ok {
		t.Fatal("slot should free after the TTL")
	}
}

func TestAlertGuardRelease(t *testing.T) {
	_, client := newRedis(t)
	guard := NewAlertGuard(client, time.Hour)
	ctx := context.Background()

	if ok, _ := guard.Acquire(ctx, "s2", model.AlertCritical); !ok {
		t.Fatal("acquire failed")
	}
	if err := guard.Release(ctx, "s2", model.AlertCritical); err != nil {
		t.Fatal(err)
	}
	if ok, _ := guard.Acquire(ctx, "s2", model.AlertCritical); !ok {
		t.Fatal("released slot should be acquirable again")
	}
}

func TestAssessmentCacheRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	c := NewAssessmentCache(client)
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("miss = %v, %v; want nil, nil", got, err)
	}

	session := &model.AssessmentSession{ID: "a1", UserID: "u1", Status: model.AssessmentInProgress}
	if err := c.Set(ctx, session); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("assessment:a1"); ttl != 10*time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
	got, err = c.Get(ctx, "a1")
	if err != nil || got == nil || got.UserID != "u1" {
		t.Fatalf("hit = %+v, %v", got, err)
	}

	if err := c.Delete(ctx, "a1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Get(ctx, "a1"); got != nil {
		t.Fatal("expected a miss after delete")
	}
}
