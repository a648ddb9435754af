// Package web exposes the student register, attendance log and face corpus
// over a small JSON API used by the admin dashboard.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/acadix/scan/internal/pipeline"
	"github.com/acadix/scan/internal/store"
)

// TrainFunc retrains the face model over the current sample corpus.
type TrainFunc func() (pipeline.TrainResult, error)

// Server represents the web server.
type Server struct {
	store      *store.Store
	corpus     pipeline.Corpus
	train      TrainFunc
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new web server listening on host:port.
func NewServer(st *store.Store, corpus pipeline.Corpus, train TrainFunc, host string, port int) *Server {
	r := chi.NewRouter()

	s := &Server{
		store:  st,
		corpus: corpus,
		train:  train,
		router: r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // training can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/api/v1/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/students", s.handleListStudents)
		r.Post("/students", s.handleAddStudent)
		r.Get("/students/{prn}/alerts", s.handleStudentAlerts)

		r.Get("/attendance", s.handleAttendanceForDate)
		r.Get("/attendance/summary", s.handleAttendanceSummary)
		r.Get("/attendance/low", s.handleLowAttendance)

		r.Post("/alerts", s.handleSendAlert)

		r.Get("/identities", s.handleListIdentities)
		r.Get("/identities/{identity}/samples/{n}/thumb", s.handleSampleThumb)

		r.Post("/train", s.handleTrain)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
