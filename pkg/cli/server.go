package cli

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mchmarny/purk/pkg/config"
	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/logging"
	"github.com/mchmarny/purk/pkg/risk"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 30
	serverMaxHeaderBytes      = 20

	portFlagName      = "port"
	noBrowserFlagName = "no-browser"
)

var (
	//go:embed templates/*
	embedFS embed.FS
)

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP server with the calculator form",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlagName,
				Usage: fmt.Sprintf("Port on which the server will listen (default from config: %d)", config.DefaultPort),
			},
			&cli.BoolFlag{
				Name:    noBrowserFlagName,
				Aliases: []string{"nb"},
				Usage:   "Do not open browser automatically",
			},
		},
	}
}

// server holds the live config, which the watcher may swap at any time.
type server struct {
	cfg   atomic.Pointer[config.Config]
	tmpl  *template.Template
	debug bool
}

func newServer(c *config.Config, debug bool) (*server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"combine": risk.Combine,
		"groups":  risk.Groups,
		"units":   risk.Units,
	}).ParseFS(embedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &server{tmpl: tmpl, debug: debug}
	s.cfg.Store(c)
	return s, nil
}

func (s *server) current() *config.Config {
	return s.cfg.Load()
}

func (s *server) defaults() form.Defaults {
	return unitDefaults(s.current())
}

func (s *server) reload(c *config.Config) {
	s.cfg.Store(c)
	if !s.debug {
		logging.Level.Set(logging.ParseLogLevel(c.LogLevel))
	}
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	srv, err := newServer(app.Config, app.Debug)
	if err != nil {
		return err
	}

	port := app.Config.Server.Port
	if cmd.IsSet(portFlagName) {
		port = cmd.Int(portFlagName)
	}
	address := net.JoinHostPort(app.Config.Server.Host, strconv.Itoa(port))

	// bind first so a taken port fails before anything is announced
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}

	s := &http.Server{
		Addr:           address,
		Handler:        srv.routes(),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := config.Watch(ctx, app.Path, srv.reload); err != nil {
			slog.Error("config changes will not be picked up", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error shutting down server: %w", err)
		}
		return nil
	})

	url := fmt.Sprintf("http://%s", ln.Addr())
	slog.Info("server started", "address", url)

	if app.Config.Server.OpenBrowser && !cmd.Bool(noBrowserFlagName) {
		openBrowser(url)
	}

	return g.Wait()
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Views
	mux.HandleFunc("GET /{$}", s.homeViewHandler)

	// API
	mux.HandleFunc("GET /api/evaluate", s.evaluateQueryAPIHandler)
	mux.HandleFunc("POST /api/evaluate", s.evaluateAPIHandler)
	mux.HandleFunc("GET /api/matrix", matrixAPIHandler)
	mux.HandleFunc("GET /healthz", healthAPIHandler)

	return mux
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}
