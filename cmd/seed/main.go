// seed creates demo assessment sessions and the alert indexes in a local MongoDB.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"mindscreen/internal/config"
	"mindscreen/internal/logging"
	"mindscreen/internal/model"
	"mindscreen/internal/repository"
)

// demoSessions are open sessions a tester can fuse against
var demoSessions = []struct {
	userID         string
	assessmentType string
}{
	{"demo-user-1", "phq9"},
	{"demo-user-2", "gad7"},
	{"demo-user-3", "general"},
}

func main() {
	cfg, err := config.Load(config.New("."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)

	if err := repository.NewAlertRepo(db).EnsureIndexes(ctx); err != nil {
		log.Fatal("ensure alert indexes", zap.Error(err))
	}

	assessments := repository.NewAssessmentRepo(db)
	for _, d := range demoSessions {
		session := &model.AssessmentSession{
			ID:             uuid.New().String(),
			UserID:         d.userID,
			AssessmentType: d.assessmentType,
			Status:         model.AssessmentInProgress,
		}
		if err := assessments.Create(ctx, session); err != nil {
			log.Fatal("seed assessment", zap.String("user", d.userID), zap.Error(err))
		}
		fmt.Printf("%s\t%s\t%s\n", session.ID, session.UserID, session.AssessmentType)
	}

	log.Info("seed complete", zap.Int("sessions", len(demoSessions)), zap.String("database", cfg.Mongo.Database))
}
