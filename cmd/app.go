package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tiliavir/taskboard/internal/bot"
	"github.com/Tiliavir/taskboard/internal/config"
	"github.com/Tiliavir/taskboard/internal/lifecycle"
	"github.com/Tiliavir/taskboard/internal/logger"
	"github.com/Tiliavir/taskboard/internal/storage"
)

// application holds everything one CLI invocation needs.
type application struct {
	cfg        *config.Config
	log        *logger.Logger
	registry   *prometheus.Registry
	dispatcher *bot.Dispatcher
}

func newApplication(cfgPath, dataDirOverride string) (*application, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dataDirOverride != "" {
		cfg.DataDir = dataDirOverride
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	dispatcher := bot.New(store, bot.Config{
		Policy: lifecycle.Policy{
			Admins:       cfg.Admins,
			Publish:      lifecycle.PublishPolicy(cfg.PublishPolicy),
			ReviewReward: cfg.ReviewReward,
		},
		LeaderboardSize: cfg.LeaderboardSize,
	}, log, bot.NewMetrics(registry))

	return &application{cfg: cfg, log: log, registry: registry, dispatcher: dispatcher}, nil
}

func (a *application) run(ctx context.Context, command string, caller bot.Caller, args string) bot.Reply {
	return a.dispatcher.Handle(ctx, bot.Invocation{Command: command, Caller: caller, Args: args})
}

// close exports metrics when configured and flushes the logger.
func (a *application) close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			a.log.Warnw("could not create metrics directory", "path", path, "error", err)
		} else if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			a.log.Warnw("could not write metrics", "path", path, "error", err)
		}
	}
	_ = a.log.Close()
}

// resolveCaller returns the identity given by --user/--name, falling back to
// the environment. Call it after config loading so .env values are visible.
func resolveCaller() (bot.Caller, error) {
	c := bot.Caller{ID: userID, Name: userName}
	if c.ID == "" {
		c.ID = os.Getenv(envUser)
	}
	if c.Name == "" {
		c.Name = os.Getenv(envUserName)
	}
	if c.ID == "" {
		return bot.Caller{}, errors.New("no caller id: pass --user or set " + envUser)
	}
	return c, nil
}

// invoke runs one dispatcher command for the resolved caller, prints the
// reply and exits non-zero when the command was refused.
func invoke(command, args string) error {
	app, err := newApplication(configPath, dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	caller, err := resolveCaller()
	if err != nil {
		app.close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	reply := app.run(context.Background(), command, caller, args)
	app.close()

	fmt.Println(reply.Text)
	if !reply.OK {
		os.Exit(1)
	}
	return nil
}
