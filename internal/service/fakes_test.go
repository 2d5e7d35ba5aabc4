package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

type memAssessmentRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.AssessmentSession
	saves    int
	getErr   error
	saveErr  error
}

func newMemAssessmentRepo() *memAssessmentRepo {
	return &memAssessmentRepo{sessions: map[string]*model.AssessmentSession{}}
}

func (r *memAssessmentRepo) Create(ctx context.Context, session *model.AssessmentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *memAssessmentRepo) GetByID(ctx context.Context, id string) (*model.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memAssessmentRepo) SaveFusion(ctx context.Context, id string, update model.FusionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	s, ok := r.sessions[id]
	if ok && s.IsCompleted() {
		return repository.ErrAssessmentFinalized
	}
	if !ok {
		s = &model.AssessmentSession{ID: id, UserID: update.UserID}
		r.sessions[id] = s
	}
	analysis := update.AIAnalysis
	report := update.Report
	s.AIAnalysis = &analysis
	s.Report = &report
	s.RiskLevel = update.RiskLevel
	s.Score = update.Score
	s.Status = model.AssessmentCompleted
	r.saves++
	return nil
}

func (r *memAssessmentRepo) get(id string) *model.AssessmentSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

type memAlertRepo struct {
	mu        sync.Mutex
	alerts    []*model.AlertRecord
	insertErr error
	stall     bool // Insert waits for ctx to expire
}

func (r *memAlertRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memAlertRepo) Insert(ctx context.Context, alert *model.AlertRecord) error {
	if r.stalled() {
		<-ctx.Done()
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, a := range r.alerts {
		if a.SourceSessionID != "" && a.SourceSessionID == alert.SourceSessionID && a.Tier == alert.Tier {
			return repository.ErrDuplicateAlert
		}
	}
	cp := *alert
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *memAlertRepo) ListBySubject(ctx context.Context, subjectID string, limit int64) ([]*model.AlertRecord, error) {
	var out []*model.AlertRecord
	for _, a := range r.recent() {
		if a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memAlertRepo) ListRecent(ctx context.Context, limit int64) ([]*model.AlertRecord, error) {
	out := r.recent()
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memAlertRepo) recent() []*model.AlertRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*model.AlertRecord(nil), r.alerts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memAlertRepo) stalled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stall
}

func (r *memAlertRepo) setStall(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stall = v
}

func (r *memAlertRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

// stubGenerator records requests and answers with text or err
type stubGenerator struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []NarrativeRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &Narrative{Text: g.text, Model: "stub-model"}, nil
}

func (g *stubGenerator) last() NarrativeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	alerts []*model.AlertRecord
}

func (b *recordingBroadcaster) BroadcastAlert(alert *model.AlertRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, alert)
}

var errStoreDown = errors.New("store down")
