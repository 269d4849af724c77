package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/config"
	"github.com/example/sevenrooms-watcher/internal/logger"
	"github.com/example/sevenrooms-watcher/internal/notify"
	"github.com/example/sevenrooms-watcher/internal/scheduler"
	"github.com/example/sevenrooms-watcher/internal/sevenrooms"
)

// app holds the wiring shared by the commands that talk to the provider or
// the notification channels.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	provider *sevenrooms.Client
	telegram *notify.Telegram
	email    *notify.Email
	notifier *notify.Dispatcher
}

func newApp(configPath string, dryRun bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		provider: sevenrooms.New(cfg, log),
		telegram: notify.NewTelegram(cfg.Telegram, cfg.HTTPTimeout()),
		email:    notify.NewEmail(cfg.Email),
	}
	a.notifier = notify.NewDispatcher(cfg.Venue, log, dryRun, a.telegram, a.email)

	if !cfg.Telegram.Enabled() {
		log.Warn("telegram notifications disabled: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID required")
	}
	if cfg.Email.Enabled {
		if missing := cfg.Email.Missing(); len(missing) > 0 {
			log.Warn("email notifications disabled: missing settings", zap.Strings("missing", missing))
		}
	}
	return a, nil
}

func (a *app) scheduler() *scheduler.Scheduler {
	return &scheduler.Scheduler{
		Provider: a.provider,
		Notifier: a.notifier,
		Dates:    a.cfg.Dates(),
		Times:    a.cfg.TimesNeeded,
		Interval: a.cfg.PollInterval(),
		Log:      a.log,
	}
}

func (a *app) close() {
	_ = a.log.Sync()
}
