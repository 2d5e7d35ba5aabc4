package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindscreen/internal/cache"
	"mindscreen/internal/knowledge"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

// AssessmentService manages assessment sessions
type AssessmentService struct {
	repo  repository.AssessmentRepo
	cache cache.AssessmentCache
	log   *zap.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(repo repository.AssessmentRepo, log *zap.Logger) *AssessmentService {
	return &AssessmentService{
		repo: repo,
		log:  log,
	}
}

// SetCache enables the Redis read-through cache
func (s *AssessmentService) SetCache(c cache.AssessmentCache) {
	s.cache = c
}

// Create opens a new in-progress session
func (s *AssessmentService) Create(ctx context.Context, userID, assessmentType string) (*model.AssessmentSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	if assessmentType == "" {
		assessmentType = knowledge.DefaultAssessmentType
	}
	now := time.Now().UTC()
	session := &model.AssessmentSession{
		ID:             uuid.New().String(),
		UserID:         userID,
		AssessmentType: assessmentType,
		Status:         model.AssessmentInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return session, nil
}

// Get returns the session or ErrAssessmentNotFound
func (s *AssessmentService) Get(ctx context.Context, id string) (*model.AssessmentSession, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("assessment cache read", zap.String("assessment", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if session == nil {
		return nil, ErrAssessmentNotFound
	}

	// Only finished sessions are cached. An open session can still be finalized, and a
	// read racing that write would otherwise pin the stale copy until the TTL runs out.
	if s.cache != nil && session.IsCompleted() {
		if err := s.cache.Set(ctx, session); err != nil {
			s.log.Warn("assessment cache write", zap.String("assessment", id), zap.Error(err))
		}
	}
	return session, nil
}

// SaveFusion records a finished round and drops the cached copy
func (s *AssessmentService) SaveFusion(ctx context.Context, id string, update model.FusionUpdate) error {
	if err := s.repo.SaveFusion(ctx, id, update); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("assessment cache invalidate", zap.String("assessment", id), zap.Error(err))
		}
	}
	return nil
}
