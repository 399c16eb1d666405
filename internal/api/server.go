// Package api provides the HTTP server for HabitQuest.
// It exposes the habit and progression engines as a small REST API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/habitquest/habitquest/internal/app/habit"
	"github.com/habitquest/habitquest/internal/app/progression"
)

// Version is reported by /api/version.
const Version = "0.1.0"

// Server is the HabitQuest HTTP API server.
type Server struct {
	habits         *habit.Service
	progress       *progression.Service
	metricsEnabled bool
	healthHandler  http.Handler // detailed health report (nil if not set)
}

// NewServer creates a new API server.
func NewServer(habits *habit.Service, progress *progression.Service) *Server {
	return &Server{habits: habits, progress: progress}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthHandler sets the detailed health report handler for /health/report.
func (s *Server) SetHealthHandler(h http.Handler) { s.healthHandler = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "HabitQuest is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/habits", s.handleListHabits)
		r.Post("/habits", s.handleCreateHabit)
		r.Get("/habits/{habitID}", s.handleGetHabit)
		r.Post("/habits/{habitID}/complete", s.handleCompleteHabit)
		r.Delete("/habits/{habitID}", s.handleDeleteHabit)
		r.Post("/sweep", s.handleSweep)

		r.Get("/account", s.handleAccount)
		r.Post("/coins/spend", s.handleSpendCoins)
		r.Post("/rewards/{rewardID}/purchase", s.handlePurchaseReward)
		r.Get("/rewards", s.handleListPurchases)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/history", s.handleHistory)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Detailed health report (component checks)
	if s.healthHandler != nil {
		r.Handle("/health/report", s.healthHandler)
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
