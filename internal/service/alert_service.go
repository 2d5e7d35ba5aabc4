package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindscreen/internal/cache"
	"mindscreen/internal/metrics"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

const (
	defaultAlertLimit = 50
	maxAlertLimit     = 200
	releaseTimeout    = time.Second
)

// AlertService persists risk alerts at most once per session and tier
type AlertService struct {
	repo        repository.AlertRepo
	guard       cache.AlertGuard
	broadcaster AlertBroadcaster
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewAlertService creates a new alert service. guard may be nil, leaving the unique index as the only dedup.
func NewAlertService(repo repository.AlertRepo, guard cache.AlertGuard, log *zap.Logger) *AlertService {
	return &AlertService{
		repo:  repo,
		guard: guard,
		log:   log,
	}
}

// SetBroadcaster sets the live reviewer feed (avoids circular dependency)
func (s *AlertService) SetBroadcaster(b AlertBroadcaster) {
	s.broadcaster = b
}

// SetMetrics sets the alert counters
func (s *AlertService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Raise inserts the alert unless one already exists for its (session, tier).
// It reports whether a new alert was written.
func (s *AlertService) Raise(ctx context.Context, alert *model.AlertRecord) (bool, error) {
	if alert == nil {
		return false, nil
	}
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	acquired := false
	if s.guard != nil && alert.SourceSessionID != "" {
		ok, err := s.guard.Acquire(ctx, alert.SourceSessionID, alert.Tier)
		switch {
		case err != nil:
			// Redis down: fall through to the unique index.
			s.log.Warn("alert guard unavailable", zap.String("session", alert.SourceSessionID), zap.Error(err))
		case !ok:
			s.metrics.AlertSuppressed()
			return false, nil
		default:
			acquired = true
		}
	}

	if err := s.repo.Insert(ctx, alert); err != nil {
		if errors.Is(err, repository.ErrDuplicateAlert) {
			s.metrics.AlertSuppressed()
			return false, nil
		}
		if acquired {
			s.release(ctx, alert)
		}
		return false, fmt.Errorf("insert alert: %w", err)
	}

	s.metrics.AlertRaised(string(alert.Tier))
	s.log.Info("risk alert raised",
		zap.String("alert", alert.ID),
		zap.String("subject", alert.SubjectID),
		zap.String("session", alert.SourceSessionID),
		zap.Int("risk_level", alert.RiskLevel),
		zap.String("tier", string(alert.Tier)),
	)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAlert(alert)
	}
	return true, nil
}

// release frees the guard slot so a later round can retry. The insert may have failed
// because ctx expired, so the release gets its own deadline.
func (s *AlertService) release(ctx context.Context, alert *model.AlertRecord) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.guard.Release(rctx, alert.SourceSessionID, alert.Tier); err != nil {
		s.log.Warn("release alert guard", zap.String("session", alert.SourceSessionID), zap.Error(err))
	}
}

// List returns the newest alerts, for one subject when subjectID is set
func (s *AlertService) List(ctx context.Context, subjectID string, limit int) ([]*model.AlertRecord, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	if limit > maxAlertLimit {
		limit = maxAlertLimit
	}
	if subjectID == "" {
		return s.repo.ListRecent(ctx, int64(limit))
	}
	return s.repo.ListBySubject(ctx, subjectID, int64(limit))
}
