package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindscreen/internal/model"
)

var ErrAssessmentFinalized = errors.New("assessment already has a final report")

// AssessmentRepo handles MongoDB operations for assessment sessions
type AssessmentRepo interface {
	Create(ctx context.Context, session *model.AssessmentSession) error
	GetByID(ctx context.Context, id string) (*model.AssessmentSession, error)
	// SaveFusion writes a completed round and marks the session completed.
	// Returns ErrAssessmentFinalized if the session was already completed.
	SaveFusion(ctx context.Context, id string, update model.FusionUpdate) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, session *model.AssessmentSession) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.AssessmentSession, error) {
	var session model.AssessmentSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *assessmentRepo) SaveFusion(ctx context.Context, id string, update model.FusionUpdate) error {
	now := time.Now()
	// Completed sessions fall out of the filter; the upsert then collides on _id.
	filter := bson.M{"_id": id, "status": bson.M{"$ne": model.AssessmentCompleted}}
	doc := bson.M{
		"$set": bson.M{
			"ai_analysis": update.AIAnalysis,
			"risk_level":  update.RiskLevel,
			"score":       update.Score,
			"report":      update.Report,
			"status":      model.AssessmentCompleted,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"user_id":    update.UserID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, doc, opts)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAssessmentFinalized
	}
	return err
}
