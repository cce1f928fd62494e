// Package server implements the preview server: a gallery of every card in
// the catalog, single-card pages, a JSON listing, and live reload over a
// WebSocket when the catalog or its images change.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/catalog"
	"github.com/conneroisu/projectcard/internal/config"
	"github.com/conneroisu/projectcard/internal/errors"
	"github.com/conneroisu/projectcard/internal/logging"
	"github.com/conneroisu/projectcard/internal/validation"
	"github.com/conneroisu/projectcard/internal/watcher"
)

// PreviewServer serves project cards with live reload capability
type PreviewServer struct {
	config        *config.Config
	logger        logging.Logger
	registry      *catalog.Registry
	assets        card.AssetResolver
	cardOptions   []card.Option
	hub           *Hub
	watcher       *watcher.FileWatcher
	catalogFilter watcher.FileFilter

	httpServer  *http.Server
	addr        string
	ready       chan struct{}
	cancel      context.CancelFunc
	serverMutex sync.RWMutex

	shutdownOnce sync.Once
}

// New creates a new preview server
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "preview server needs a configuration")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("server")

	assets := card.NewDirAssets(cfg.Assets.Dir, cfg.Assets.BaseURL)

	s := &PreviewServer{
		config:        cfg,
		logger:        logger,
		registry:      catalog.NewRegistry(),
		assets:        assets,
		hub:           NewHub(logger),
		catalogFilter: watcher.FileFilterFor(cfg.Catalog.Path),
		ready:         make(chan struct{}),
	}
	s.cardOptions = []card.Option{
		card.WithAssets(assets),
		card.WithIcons(card.DefaultIcons(card.DefaultStaticURL)),
		card.WithLinkOptions(cfg.LinkOptions()),
		card.WithLogger(logger),
	}

	if cfg.Development.HotReload {
		delay := time.Duration(cfg.Development.DebounceMS) * time.Millisecond
		fileWatcher, err := watcher.NewFileWatcher(delay, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = fileWatcher
	}

	return s, nil
}

// Registry exposes the projects currently served.
func (s *PreviewServer) Registry() *catalog.Registry {
	return s.registry
}

// LoadCatalog reads the configured catalog into the registry. Validation
// issues are logged; the projects are served regardless.
func (s *PreviewServer) LoadCatalog(ctx context.Context) error {
	op := logging.StartOperation(s.logger, "load_catalog")

	file, err := catalog.Load(s.config.Catalog.Path)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}

	for _, issue := range catalog.Validate(file) {
		s.logger.Warn(ctx, nil, "catalog issue", "issue", issue.String())
	}

	changes := s.registry.Replace(file)
	s.logger.Info(ctx, "catalog loaded",
		"path", s.config.Catalog.Path,
		"projects", s.registry.Count(),
		"changes", changes)
	op.End(ctx)
	return nil
}

// Start loads the catalog, starts the WebSocket hub and the file watcher,
// and serves HTTP until Shutdown is called or ctx is done.
func (s *PreviewServer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	s.serverMutex.Lock()
	s.cancel = cancel
	s.serverMutex.Unlock()

	if err := s.LoadCatalog(ctx); err != nil {
		// The watcher picks the catalog up once it exists or parses.
		s.logger.Warn(ctx, err, "initial catalog load failed")
	}

	go s.hub.Run(ctx)
	go s.logRegistryEvents(ctx)

	if s.watcher != nil {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "live reload disabled")
		}
	}

	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		cancel()
		return errors.NewNetworkError(errors.ErrCodeServerStart, "cannot listen on "+addr, err)
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.addr = listener.Addr().String()
	server := s.httpServer
	s.serverMutex.Unlock()
	close(s.ready)

	url := "http://" + s.Addr()
	s.logger.Info(ctx, "preview server listening", "url", url)

	if s.config.Server.Open && !s.config.Server.NoOpen {
		go s.openBrowser(ctx, url)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = s.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return errors.NewNetworkError(errors.ErrCodeServerStart, "server error", err)
	}

	return nil
}

// Ready is closed once the server is listening.
func (s *PreviewServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the address the server listens on, empty before Ready.
func (s *PreviewServer) Addr() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.addr
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) error {
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	s.watcher.AddFilter(watcher.AnyFilter(s.catalogFilter, watcher.ImageFilter))
	s.watcher.AddHandler(s.handleFileChange)

	catalogDir := filepath.Dir(s.config.Catalog.Path)
	if err := s.watcher.AddPath(catalogDir); err != nil {
		return fmt.Errorf("watching catalog directory %s: %w", catalogDir, err)
	}

	if info, err := os.Stat(s.config.Assets.Dir); err == nil && info.IsDir() {
		if err := s.watcher.AddRecursive(s.config.Assets.Dir); err != nil {
			s.logger.Warn(ctx, err, "cannot watch assets directory", "dir", s.config.Assets.Dir)
		}
	}

	return s.watcher.Start(ctx)
}

func (s *PreviewServer) handleFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	catalogChanged := false
	for _, event := range events {
		s.logger.Debug(ctx, "file changed", "path", event.Path, "type", event.Type.String())
		if s.catalogFilter(event.Path) {
			catalogChanged = true
		}
	}

	if catalogChanged {
		// Keep serving the last good catalog until the file parses again.
		if err := s.LoadCatalog(ctx); err != nil {
			return err
		}
	}

	s.hub.Broadcast(reloadMessage())
	return nil
}

func (s *PreviewServer) logRegistryEvents(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.logger.Debug(ctx, "project "+event.Type.String(), "project", event.Project.Name)
		}
	}
}

// browserCommand returns the launcher for url on the current platform.
func browserCommand(url string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

func (s *PreviewServer) openBrowser(ctx context.Context, url string) {
	// Only ever hand launchers a plain http(s) URL.
	if err := validation.ValidateURL(url); err != nil {
		s.logger.Warn(ctx, err, "browser open refused", "url", url)
		return
	}

	cmd, err := browserCommand(url)
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		s.logger.Warn(ctx, err, "failed to open browser", "url", url)
	}
}

// allowedOrigins are the hosts accepted on /ws besides the request host.
func (s *PreviewServer) allowedOrigins() []string {
	port := strconv.Itoa(s.config.Server.Port)
	origins := []string{
		net.JoinHostPort("localhost", port),
		net.JoinHostPort("127.0.0.1", port),
	}
	if host := s.config.Server.Host; host != "" && host != "localhost" && host != "127.0.0.1" {
		origins = append(origins, net.JoinHostPort(host, port))
	}
	for _, origin := range s.config.Server.AllowedOrigins {
		origins = append(origins, strings.TrimSpace(origin))
	}
	return origins
}

// Shutdown gracefully shuts down the server and cleans up resources. It is
// safe to call more than once and before Start.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "shutting down preview server")

		s.serverMutex.RLock()
		cancel := s.cancel
		server := s.httpServer
		s.serverMutex.RUnlock()

		if cancel != nil {
			cancel()
		}

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "stopping file watcher")
			}
		}

		s.hub.Close()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
