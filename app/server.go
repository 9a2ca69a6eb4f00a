package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/htol/bookshelf/api"
	"github.com/htol/bookshelf/config"
	"github.com/htol/bookshelf/logger"
	"github.com/htol/bookshelf/repo"
	"github.com/htol/bookshelf/service"
)

type Server struct {
	service *service.Service
	config  *config.Config
	httpSrv *http.Server
}

// NewServer opens the configured registry and wires the HTTP handler over it
func NewServer(cfg *config.Config) (*Server, error) {
	storage, err := repo.Open(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	svc := service.New(storage)

	return &Server{
		service: svc,
		config:  cfg,
		httpSrv: &http.Server{
			Handler:      api.NewHandler(svc, cfg.Server.MaxBodyBytes),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}, nil
}

// Listen binds the configured address, capping open connections when MaxConns is set
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.config.Server.Addr(), err)
	}
	if s.config.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.config.Server.MaxConns)
	}
	return ln, nil
}

// Serve handles requests on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening",
			"addr", ln.Addr().String(),
			"url", fmt.Sprintf("http://%s", ln.Addr().String()),
			"backend", s.config.Registry.Backend,
			"id_strategy", s.config.Registry.IDStrategy,
		)
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(s.config.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the registry behind the service
func (s *Server) Close() error {
	if s.service != nil {
		return s.service.Close()
	}
	return nil
}
