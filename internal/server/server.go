package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/example/vocabbuilder/internal/database"
	"github.com/example/vocabbuilder/internal/quiz"
	"github.com/example/vocabbuilder/internal/vocab"
)

// Server is the HTTP JSON API over the vocabulary service.
type Server struct {
	cfg    *Config
	svc    *vocab.Service
	gen    *quiz.Generator
	mirror *database.MirrorRepository
	fs     afero.Fs
	log    *slog.Logger
	http   *http.Server
}

// New creates a server around the service.
func New(cfg *Config, svc *vocab.Service, gen *quiz.Generator, mirror *database.MirrorRepository, fs afero.Fs, log *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		gen:    gen,
		mirror: mirror,
		fs:     fs,
		log:    log,
	}
	s.http = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/levels/{level}/words", s.handleListWords)
	mux.HandleFunc("POST /api/levels/{level}/words", s.handleAddWord)
	mux.HandleFunc("PUT /api/levels/{level}/words/{word}", s.handleUpdateWord)
	mux.HandleFunc("DELETE /api/levels/{level}/words/{word}", s.handleDeleteWord)
	mux.HandleFunc("POST /api/levels/{level}/words/{word}/learned", s.handleLearnWord)
	mux.HandleFunc("POST /api/learned/{word}/restore", s.handleRestoreWord)

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/levels/{level}/stats", s.handleStats)
	mux.HandleFunc("GET /api/levels/{level}/quiz", s.handleQuiz)
	mux.HandleFunc("GET /api/levels/{level}/export", s.handleExport)
	mux.HandleFunc("POST /api/levels/{level}/import", s.handleImport)

	mux.HandleFunc("POST /api/media", s.handleMediaUpload)
	mux.Handle("GET /media/", http.StripPrefix("/media/",
		http.FileServer(afero.NewHttpFs(s.fs).Dir(s.cfg.MediaDir))))

	return s.logRequests(mux)
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
