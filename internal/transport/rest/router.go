package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mindscreen/internal/service"
	"mindscreen/internal/transport/rest/handler"
	"mindscreen/internal/transport/rest/middleware"
	"mindscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Composer          *service.ReportComposer
	AssessmentService *service.AssessmentService
	AlertService      *service.AlertService
	WSHub             *ws.Hub
	Metrics           prometheus.Gatherer
	Log               *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	fusionHandler := handler.NewFusionHandler(c.Composer)
	dialogueHandler := handler.NewDialogueHandler(c.Composer)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	alertHandler := handler.NewAlertHandler(c.AlertService)
	wsHandler := ws.NewHandler(c.WSHub, c.Log)

	// CORS middleware (apply first)
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger(c.Log))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/fusion", fusionHandler.Fuse).Methods("POST", "OPTIONS")
	v1.HandleFunc("/dialogue/turn", dialogueHandler.Turn).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments", assessmentHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/alerts", alertHandler.List).Methods("GET", "OPTIONS")

	// Reviewer alert feed
	v1.HandleFunc("/ws/alerts", wsHandler.AlertsWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})).Methods("GET")
	}

	return r
}
