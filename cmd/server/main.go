package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"mindscreen/internal/cache"
	"mindscreen/internal/config"
	"mindscreen/internal/engine"
	"mindscreen/internal/knowledge"
	"mindscreen/internal/logging"
	"mindscreen/internal/metrics"
	"mindscreen/internal/repository"
	"mindscreen/internal/service"
	"mindscreen/internal/transport/rest"
	"mindscreen/internal/transport/ws"
)

func main() {
	v := config.New(".")
	cfg, err := config.Load(v)
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

	if err := run(cfg, v, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, v *viper.Viper, log *zap.Logger) error {
	ctx := context.Background()

	log.Info("narrative generator",
		zap.String("provider", cfg.AI.Provider),
		zap.String("report_model", cfg.AI.Models.Report),
		zap.String("dialogue_model", cfg.AI.Models.Dialogue),
		zap.Bool("api_key_set", cfg.AI.IsEnabled()),
	)
	if !cfg.AI.IsEnabled() && !cfg.AI.IsMock() {
		log.Warn("GEMINI_API_KEY not set: fusion and dialogue requests will fail until it is configured")
	}

	params, err := cfg.Scoring.Params()
	if err != nil {
		return err
	}
	paramStore, err := engine.NewParamStore(params)
	if err != nil {
		return err
	}
	config.WatchScoring(v, paramStore, log)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection; the service degrades to the Mongo unique index without it
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Warn("Redis unavailable, alert guard and assessment cache will fail open", zap.Error(err))
	} else {
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize repositories
	assessmentRepo := repository.NewAssessmentRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	indexCtx, indexCancel := context.WithTimeout(ctx, 10*time.Second)
	defer indexCancel()
	if err := alertRepo.EnsureIndexes(indexCtx); err != nil {
		return fmt.Errorf("ensure alert indexes: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	defer wsHub.Close()

	// Initialize services
	assessmentSvc := service.NewAssessmentService(assessmentRepo, log)
	assessmentSvc.SetCache(cache.NewAssessmentCache(rdb))

	alertSvc := service.NewAlertService(alertRepo, cache.NewAlertGuard(rdb, cfg.Alerts.DedupTTL), log)
	alertSvc.SetBroadcaster(wsHub)
	alertSvc.SetMetrics(m)

	kb, err := knowledge.Default()
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}
	composer := service.NewReportComposer(
		paramStore,
		service.NewNarrativeGenerator(&cfg.AI),
		assessmentSvc,
		alertSvc,
		kb,
		cfg.StoreTimeout(),
		log,
	)
	composer.SetMetrics(m)

	router := rest.NewRouter(&rest.Container{
		Composer:          composer,
		AssessmentService: assessmentSvc,
		AlertService:      alertSvc,
		WSHub:             wsHub,
		Metrics:           registry,
		Log:               log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Let in-flight session and alert writes land before the stores disconnect
	composer.Wait()
	log.Info("server exited")
	return nil
}
