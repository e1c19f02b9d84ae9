// Package api exposes the HTTP front door that serves rendered link previews.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/dispatcher"
	"github.com/blumlaut/fxfurtrack/internal/metrics"
	"github.com/blumlaut/fxfurtrack/internal/preview"
)

const repoURL = "https://github.com/Blumlaut/fxfurtrack"

// Server wires HTTP handlers to the dispatcher.
type Server struct {
	router     chi.Router
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(d *dispatcher.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		dispatcher: d,
		logger:     logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/", s.root)
	r.Get("/*", s.preview)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, repoURL, http.StatusFound)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if !preview.Supported(path) {
		http.NotFound(w, r)
		return
	}

	res, err := s.dispatcher.Dispatch(r.Context(), path)
	if err != nil {
		if errors.Is(err, dispatcher.ErrAwaitTimeout) {
			http.Error(w, "preview timed out", http.StatusGatewayTimeout)
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("dispatch failed", zap.String("path", path), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !res.OK() {
		s.logger.Debug("preview resolution failed",
			zap.String("path", path),
			zap.String("message", res.Message),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPreview(w, s.logger, res)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
