package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bloglytics/internal/config"
	"bloglytics/internal/core"
)

type Server struct {
	Logger *slog.Logger
	Config *config.Config
	DB     core.DB

	srv *http.Server
}

func (s *Server) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.Server")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.HealthCheck(r.Context()); err != nil {
			s.Logger.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	s.srv = &http.Server{
		Addr:              s.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	return nil
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting metrics server", "addr", s.srv.Addr)

	go func() {
		<-ctx.Done()
		s.srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
