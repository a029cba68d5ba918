package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/five82/brandloom/internal/api"
	"github.com/five82/brandloom/internal/config"
	"github.com/five82/brandloom/internal/flow"
	"github.com/five82/brandloom/internal/logging"
	"github.com/five82/brandloom/internal/prefs"
	"github.com/five82/brandloom/internal/session"
	"github.com/five82/brandloom/internal/ui"
)

// Options configure the brandloom application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/brandloom/prefs.toml
	APIURL     string // overrides the configured backend URL
	LogLevel   string // debug, info, warn or error
}

// runtime is everything Run wires together before the UI starts.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	ctrl   *flow.Controller
	prefs  prefs.Prefs
	closer io.Closer
}

func (r *runtime) close() {
	r.ctrl.Close()
	_ = r.closer.Close()
}

// Run boots the brandloom TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := build(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.Info("brandloom starting", "api_url", rt.cfg.APIURL, "session_path", rt.cfg.SessionPath)
	err = ui.Run(ui.Options{
		Context:      ctx,
		Controller:   rt.ctrl,
		Logger:       rt.logger,
		ThemeName:    rt.prefs.Theme,
		PrefsPath:    opts.PrefsPath,
		LastUsername: rt.prefs.LastUsername,
	})
	if err != nil {
		rt.logger.Error("ui exited with error", "error", err)
		return err
	}
	rt.logger.Info("brandloom stopped")
	return nil
}

func build(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, closer, err := logging.Open(cfg.LogPath, logging.ParseLevel(opts.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger))
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	ctrl := flow.New(client, session.NewStore(cfg.SessionPath), flow.WithLogger(logger))
	return &runtime{
		cfg:    cfg,
		logger: logger,
		ctrl:   ctrl,
		prefs:  prefs.Load(opts.PrefsPath),
		closer: closer,
	}, nil
}
