package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindscreen/internal/model"
)

var ErrDuplicateAlert = errors.New("alert already raised for this session and tier")

// AlertRepo handles MongoDB operations for risk alerts
type AlertRepo interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, alert *model.AlertRecord) error
	ListBySubject(ctx context.Context, subjectID string, limit int64) ([]*model.AlertRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.AlertRecord, error)
}

type alertRepo struct {
	collection *mongo.Collection
}

// NewAlertRepo creates a new alert repository
func NewAlertRepo(db *mongo.Database) AlertRepo {
	return &alertRepo{
		collection: db.Collection("risk_alerts"),
	}
}

// EnsureIndexes makes (sourceSessionId, tier) unique so concurrent rounds cannot double-insert.
// Alerts without a session id are left out of the index.
func (r *alertRepo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().
		SetName("uniq_session_tier").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"sourceSessionId": bson.M{"$gt": ""}})

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sourceSessionId", Value: 1}, {Key: "tier", Value: 1}},
			Options: unique,
		},
		{
			Keys:    bson.D{{Key: "subjectId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("subject_recent"),
		},
	})
	return err
}

func (r *alertRepo) Insert(ctx context.Context, alert *model.AlertRecord) error {
	_, err := r.collection.InsertOne(ctx, alert)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateAlert
	}
	return err
}

func (r *alertRepo) ListBySubject(ctx context.Context, subjectID string, limit int64) ([]*model.AlertRecord, error) {
	return r.find(ctx, bson.M{"subjectId": subjectID}, limit)
}

func (r *alertRepo) ListRecent(ctx context.Context, limit int64) ([]*model.AlertRecord, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *alertRepo) find(ctx context.Context, filter bson.M, limit int64) ([]*model.AlertRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	alerts := []*model.AlertRecord{}
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
