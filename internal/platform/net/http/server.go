package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
)

// Server owns the chi mux and the listener
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads API_PORT and SHUTDOWN_GRACE_SEC from cfg
func NewServer(cfg config.Conf) *Server {
	m := chi.NewRouter()
	return &Server{
		mux:   m,
		grace: time.Duration(cfg.MayInt("SHUTDOWN_GRACE_SEC", 10)) * time.Second,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler is the root handler, for tests
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is done, then drains in-flight requests for at most
// the configured grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.srv.Addr).Msg("http listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
		defer cancel()
		return s.srv.Shutdown(sctx)
	})
	return g.Wait()
}
