package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mindscreen/internal/cache"
	"mindscreen/internal/model"
)

func newTestGuard(t *testing.T) (*miniredis.Miniredis, cache.AlertGuard) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, cache.NewAlertGuard(client, 24*time.Hour)
}

func testAlert(session string, tier model.AlertTier) *model.AlertRecord {
	return &model.AlertRecord{
		SubjectID:       "u1",
		RiskLevel:       7,
		CompositeScore:  7.33,
		Category:        model.AlertCategoryFusion,
		Tier:            tier,
		SourceSessionID: session,
		CreatedAt:       time.Now(),
	}
}

func TestAlertRaiseOncePerSessionTier(t *testing.T) {
	_, guard := newTestGuard(t)
	repo := &memAlertRepo{}
	b := &recordingBroadcaster{}
	svc := NewAlertService(repo, guard, zap.NewNop())
	svc.SetBroadcaster(b)
	ctx := context.Background()

	raised, err := svc.Raise(ctx, testAlert("s1", model.AlertElevated))
	if err != nil || !raised {
		t.Fatalf("first raise = %v, %v", raised, err)
	}
	raised, err = svc.Raise(ctx, testAlert("s1", model.AlertElevated))
	if err != nil || raised {
		t.Fatalf("repeat raise = %v, %v; want suppressed", raised, err)
	}
	raised, err = svc.Raise(ctx, testAlert("s1", model.AlertCritical))
	if err != nil || !raised {
		t.Fatalf("escalation raise = %v, %v", raised, err)
	}

	if repo.count() != 2 || len(b.alerts) != 2 {
		t.Fatalf("stored %d alerts, broadcast %d; want 2 and 2", repo.count(), len(b.alerts))
	}
}

func TestAlertRaiseFallsBackToUniqueIndex(t *testing.T) {
	repo := &memAlertRepo{}
	svc := NewAlertService(repo, nil, zap.NewNop())
	ctx := context.Background()

	if raised, _ := svc.Raise(ctx, testAlert("s1", model.AlertElevated)); !raised {
		t.Fatal("first raise should insert")
	}
	raised, err := svc.Raise(ctx, testAlert("s1", model.AlertElevated))
	if err != nil || raised {
		t.Fatalf("duplicate = %v, %v; want suppressed without error", raised, err)
	}
}

func TestAlertRaiseGuardDownStillInserts(t *testing.T) {
	mr, guard := newTestGuard(t)
	mr.Close()
	repo := &memAlertRepo{}
	svc := NewAlertService(repo, guard, zap.NewNop())

	raised, err := svc.Raise(context.Background(), testAlert("s1", model.AlertElevated))
	if err != nil || !raised {
		t.Fatalf("raise with redis down = %v, %v", raised, err)
	}
}

func TestAlertRaiseReleasesGuardOnInsertFailure(t *testing.T) {
	_, guard := newTestGuard(t)
	repo := &memAlertRepo{insertErr: errStoreDown}
	svc := NewAlertService(repo, guard, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Raise(ctx, testAlert("s1", model.AlertElevated)); !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v, want store failure", err)
	}

	repo.insertErr = nil
	raised, err := svc.Raise(ctx, testAlert("s1", model.AlertElevated))
	if err != nil || !raised {
		t.Fatalf("retry after failure = %v, %v", raised, err)
	}
}

func TestAlertRaiseReleasesGuardAfterStoreTimeout(t *testing.T) {
	mr, guard := newTestGuard(t)
	repo := &memAlertRepo{stall: true}
	svc := NewAlertService(repo, guard, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := svc.Raise(ctx, testAlert("s1", model.AlertCritical)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if mr.Exists("alert:s1:critical") {
		t.Fatal("guard slot should be released after a timed-out insert")
	}

	repo.setStall(false)
	raised, err := svc.Raise(context.Background(), testAlert("s1", model.AlertCritical))
	if err != nil || !raised {
		t.Fatalf("retry after timeout = %v, %v", raised, err)
	}
	if repo.count() != 1 {
		t.Fatalf("stored %d alerts, want 1", repo.count())
	}
}

func TestAlertList(t *testing.T) {
	repo := &memAlertRepo{}
	svc := NewAlertService(repo, nil, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, session := range []string{"s1", "s2", "s3"} {
		a := testAlert(session, model.AlertElevated)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if session == "s3" {
			a.SubjectID = "u2"
		}
		if _, err := svc.Raise(ctx, a); err != nil {
			t.Fatalf("raise %s: %v", session, err)
		}
	}

	all, err := svc.List(ctx, "", 0)
	if err != nil || len(all) != 3 || all[0].SourceSessionID != "s3" {
		t.Fatalf("list recent = %d alerts, err %v", len(all), err)
	}
	mine, _ := svc.List(ctx, "u1", 1)
	if len(mine) != 1 || mine[0].SourceSessionID != "s2" {
		t.Fatalf("list by subject = %+v", mine)
	}
}
