package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mindscreen/internal/engine"
	"mindscreen/internal/knowledge"
	"mindscreen/internal/metrics"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

// PendingReport stands in for the narrative when the generator fails on a fusion round
const PendingReport = "report generation pending"

const (
	knowledgeLimit      = 3
	defaultStoreTimeout = 5 * time.Second
)

// ReportComposer runs fusion rounds and dialogue turns end to end
type ReportComposer struct {
	params       *engine.ParamStore
	generator    NarrativeGenerator
	assessments  *AssessmentService
	alerts       *AlertService
	knowledge    *knowledge.Base
	metrics      *metrics.Metrics
	log          *zap.Logger
	storeTimeout time.Duration
	now          func() time.Time
	wg           sync.WaitGroup
}

// NewReportComposer creates a new report composer
func NewReportComposer(
	params *engine.ParamStore,
	generator NarrativeGenerator,
	assessments *AssessmentService,
	alerts *AlertService,
	kb *knowledge.Base,
	storeTimeout time.Duration,
	log *zap.Logger,
) *ReportComposer {
	if kb == nil {
		def, err := knowledge.Default()
		if err != nil {
			log.Warn("embedded knowledge base unavailable, prompts go ungrounded", zap.Error(err))
			def = &knowledge.Base{}
		}
		kb = def
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &ReportComposer{
		params:       params,
		generator:    generator,
		assessments:  assessments,
		alerts:       alerts,
		knowledge:    kb,
		log:          log,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// SetMetrics sets the engine counters
func (c *ReportComposer) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// ComposeFusion fuses one round of scores and returns the caller payload.
// Persistence of the session and any alert happens in the background.
func (c *ReportComposer) ComposeFusion(ctx context.Context, in model.FusionInput) (*model.FusionResponse, error) {
	if in.UserID == "" || in.AssessmentID == "" {
		return nil, fmt.Errorf("%w: user_id and assessment_id are required", ErrInvalidRequest)
	}
	if err := c.checkOpen(ctx, in.AssessmentID); err != nil {
		return nil, err
	}

	p := c.params.Load()
	res := engine.Fuse(in.Scores, p)
	recs := engine.Recommend(res.RiskLevel, p)
	tier := engine.TierFor(res.RiskLevel, p)

	report := PendingReport
	narrative, err := c.generator.Generate(ctx, NarrativeRequest{
		Purpose:  PurposeReport,
		System:   reportSystemPrompt,
		Messages: []model.ChatMessage{{Role: "user", Content: buildReportPrompt(res, in.Scores, recs, tier)}},
	})
	switch {
	case errors.Is(err, ErrGeneratorNotConfigured):
		return nil, err
	case err != nil:
		c.metrics.NarrativeFailure(string(PurposeReport))
		c.log.Warn("report narrative failed", zap.String("assessment", in.AssessmentID), zap.Error(err))
	default:
		report = narrative.Text
	}

	fused := round2(res.CompositeScore)
	resp := &model.FusionResponse{
		Success:         true,
		FusedScore:      fused,
		RiskLevel:       res.RiskLevel,
		Symptoms:        res.Symptoms,
		Recommendations: recs,
		DetailedReport:  report,
		ModalitiesUsed:  res.ModalitiesUsed,
		WeightsApplied:  res.Weights,
	}
	c.metrics.FusionRound(string(tier), res.ModalitiesUsed, res.CompositeScore)

	now := c.now().UTC()
	update := model.FusionUpdate{
		UserID: in.UserID,
		AIAnalysis: model.AIAnalysis{
			MultimodalScores: in.Scores,
			FusedScore:       fused,
			Symptoms:         res.Symptoms,
			ModalitiesUsed:   res.ModalitiesUsed,
			Timestamp:        now,
		},
		RiskLevel: res.RiskLevel,
		Score:     healthScore(fused),
		Report: model.AssessmentReport{
			Content:         report,
			Recommendations: recs,
			GeneratedAt:     now,
		},
	}
	alert := engine.EvaluateAlert(engine.AlertInput{
		SubjectID:      in.UserID,
		SessionID:      in.AssessmentID,
		RiskLevel:      res.RiskLevel,
		CompositeScore: res.CompositeScore,
	}, p, now)
	c.persist(in.AssessmentID, update, alert)

	return resp, nil
}

// checkOpen rejects rounds against a completed session. Lookup failures are not fatal;
// the conditional upsert still refuses to overwrite a completed session.
func (c *ReportComposer) checkOpen(ctx context.Context, id string) error {
	if c.assessments == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	session, err := c.assessments.Get(ctx, id)
	switch {
	case errors.Is(err, ErrAssessmentNotFound):
		return nil
	case err != nil:
		c.log.Warn("assessment lookup failed", zap.String("assessment", id), zap.Error(err))
		return nil
	case session.IsCompleted():
		return repository.ErrAssessmentFinalized
	}
	return nil
}

// persist writes the session update and raises the alert concurrently.
// Failures are logged and counted; the caller already has its response.
func (c *ReportComposer) persist(id string, update model.FusionUpdate, alert *model.AlertRecord) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
		defer cancel()

		var g errgroup.Group
		if c.assessments != nil {
			g.Go(c.bestEffort("save_assessment", func() error {
				return c.assessments.SaveFusion(ctx, id, update)
			}))
		}
		if alert != nil && c.alerts != nil {
			g.Go(c.bestEffort("raise_alert", func() error {
				_, err := c.alerts.Raise(ctx, alert)
				return err
			}))
		}
		_ = g.Wait()
	}()
}

func (c *ReportComposer) bestEffort(op string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			c.metrics.StoreFailure(op)
			c.log.Error("background persistence failed", zap.String("op", op), zap.Error(err))
		}
		return nil
	}
}

// Wait blocks until background persistence started so far has finished
func (c *ReportComposer) Wait() {
	c.wg.Wait()
}

// ComposeDialogueTurn produces the next interviewer reply for the accumulated history
func (c *ReportComposer) ComposeDialogueTurn(ctx context.Context, in model.DialogueInput) (*model.DialogueResponse, error) {
	if in.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	messages := make([]model.ChatMessage, 0, len(in.History)+1)
	for i, m := range in.History {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, fmt.Errorf("%w: conversation_history[%d] has role %q", ErrInvalidRequest, i, m.Role)
		}
		messages = append(messages, m)
	}
	messages = append(messages, model.ChatMessage{Role: "user", Content: in.Query})

	assessmentType := in.AssessmentType
	if assessmentType == "" {
		assessmentType = knowledge.DefaultAssessmentType
	}

	state := engine.StageFor(len(in.History), c.params.Load())
	snippets := c.knowledge.Match(assessmentType, in.Query, knowledgeLimit)

	narrative, err := c.generator.Generate(ctx, NarrativeRequest{
		Purpose:  PurposeDialogue,
		System:   buildDialogueSystem(assessmentType, state, snippets),
		Messages: messages,
	})
	if err != nil {
		if !errors.Is(err, ErrGeneratorNotConfigured) {
			c.metrics.NarrativeFailure(string(PurposeDialogue))
		}
		return nil, fmt.Errorf("dialogue reply: %w", err)
	}
	c.metrics.DialogueTurn(string(state.Stage))

	return &model.DialogueResponse{
		Reply:          narrative.Text,
		Model:          narrative.Model,
		KnowledgeUsed:  len(snippets),
		AssessmentType: assessmentType,
		Stage:          state.Stage,
		Directive:      state.Directive,
		MessageCount:   state.MessageCount,
	}, nil
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// healthScore is the stored 0-100 score, higher is healthier
func healthScore(fused float64) int {
	return int(math.Floor((model.MaxScore-fused)*10 + 0.5))
}
