package cli

import (
	"fmt"
	"time"

	"github.com/mzaikin/daytrack/internal/config"
	"github.com/mzaikin/daytrack/internal/logger"
	"github.com/mzaikin/daytrack/internal/model"
	"github.com/mzaikin/daytrack/internal/report"
	"github.com/mzaikin/daytrack/internal/session"
	"github.com/mzaikin/daytrack/internal/store"
)

// App bundles the wired-up components a command needs. The composition
// root: the store is constructed here with its path injected from
// config, never reached through package state.
type App struct {
	Cfg      *config.Config
	Store    *store.Store
	Sessions *session.Controller
	Reports  *report.Engine
}

func openApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", logger.F("error", err))
		cfg = config.DefaultConfig()
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctrl, err := session.New(st, cfg.SingleActive)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &App{
		Cfg:      cfg,
		Store:    st,
		Sessions: ctrl,
		Reports:  report.NewEngine(st),
	}, nil
}

// Close releases the store.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		logger.Warn("Failed to close database", logger.F("error", err))
	}
}

// formatElapsed renders a live duration as h:mm:ss.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// resolveDate turns an optional positional date argument into a date
// key, defaulting to today.
func resolveDate(args []string) (string, error) {
	if len(args) == 0 {
		return model.DateKeyOf(time.Now()), nil
	}
	t, err := time.ParseInLocation(model.DateLayout, args[0], time.Local)
	if err != nil {
		return "", fmt.Errorf("bad date %q, want YYYY-MM-DD", args[0])
	}
	return model.DateKeyOf(t), nil
}
