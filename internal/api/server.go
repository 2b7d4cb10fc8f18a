package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bloglytics/internal/config"
)

type contextKey string

const loggerContextKey = contextKey("logger")

type Server struct {
	server *http.Server

	Logger  *slog.Logger
	Config  *config.Config
	Backend *Backend
	Gate    *Gate
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting API server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "api.Server")

	r := chi.NewMux()

	logger := func(ctx context.Context) *slog.Logger {
		return ctx.Value(loggerContextKey).(*slog.Logger)
	}

	r.Use(
		// json content type
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				next.ServeHTTP(w, r)
			})
		},

		// request-scoped logger
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger := s.Logger.With("method", r.Method, "path", r.URL.Path)
				ctx := context.WithValue(r.Context(), loggerContextKey, logger)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		},

		// request logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()
				sw := &statusWriter{ResponseWriter: w}

				next.ServeHTTP(sw, r)

				duration := time.Since(start)
				logger(r.Context()).Info("request", "duration", duration, "status", sw.status)
			})
		},

		// recovering panics and logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if err := recover(); err != nil {
						logger(r.Context()).Error("panic recovered", "error", err)
						http.Error(w, `{"message": "Internal Server Error"}`, http.StatusInternalServerError)
					}
				}()
				next.ServeHTTP(w, r)
			})
		},
	)

	s.Backend.Mount(r, s.Gate)

	s.server = &http.Server{
		Handler:           r,
		Addr:              s.Config.ListenAddr,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       time.Minute,
	}
	return nil
}
