package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/treebrowse/internal/discovery"
	"github.com/muurk/treebrowse/internal/logging"
)

const (
	// DefaultAddr is the default listen address
	DefaultAddr = ":8080"

	// DefaultListingPath is where the listing endpoint is mounted
	DefaultListingPath = "/listing"

	shutdownTimeout = 5 * time.Second
)

// Config holds the server configuration
type Config struct {
	Root        string // Directory served (ignored when FS is set)
	FS          fs.FS  // Tree to serve; defaults to os.DirFS(Root)
	Addr        string
	ListingPath string
	ShowHidden  bool   // Include dotfiles in listings
	Advertise   bool   // Register the server over mDNS
	Name        string // mDNS instance name
}

// Server serves directory listings over HTTP
type Server struct {
	cfg     Config
	index   *Index
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// New creates a new Server instance
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ListingPath == "" {
		cfg.ListingPath = DefaultListingPath
	}
	if cfg.Name == "" {
		cfg.Name = "treebrowse"
	}

	if cfg.FS == nil {
		if cfg.Root == "" {
			cfg.Root = "."
		}
		info, err := os.Stat(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to open root: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root %s is not a directory", cfg.Root)
		}
		cfg.FS = os.DirFS(cfg.Root)
	}

	s := &Server{
		cfg:   cfg,
		index: NewIndex(cfg.FS, cfg.ShowHidden),
		ready: make(chan struct{}),
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Index returns the listing index
func (s *Server) Index() *Index {
	return s.index
}

// Ready is closed once the server is listening
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address, or nil before Run has bound it
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully.
// It must be called at most once.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logging.Info("Listing server started",
		zap.String("addr", ln.Addr().String()),
		zap.String("root", s.cfg.Root),
		zap.String("listing_path", s.cfg.ListingPath),
		zap.Bool("show_hidden", s.cfg.ShowHidden),
	)

	if s.cfg.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv, err := discovery.Advertise(s.cfg.Name, port, s.cfg.ListingPath)
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer adv.Shutdown()
		}
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down listing server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	close(s.ready)

	return g.Wait()
}
