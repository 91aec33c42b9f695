package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/api"
	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/infrastructure"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/pkg/logging"
)

// app holds the systems shared by every subcommand.
type app struct {
	user string

	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	agents agents.System
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr())

	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()

	sys, err := api.NewAgents(cfg, api.NewRuntime(cfg, infra))
	if err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return err
	}

	a.cfg = cfg
	a.infra = infra
	a.agents = sys
	return nil
}

func (a *app) close() {
	if a.infra == nil {
		return
	}
	if err := a.infra.Lifecycle.Shutdown(a.timeout()); err != nil {
		a.infra.Logger.Error("shutdown failed", "error", err)
	}
}

func (a *app) timeout() time.Duration {
	if a.cfg == nil {
		return 30 * time.Second
	}
	return a.cfg.ShutdownTimeoutDuration()
}

// session returns ctx carrying the acting user: the --user flag, or else the
// selected current user. With neither, commands see every config.
func (a *app) session(ctx context.Context) (context.Context, error) {
	user := a.user
	if user == "" {
		current, err := a.agents.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		user = current
	}
	return session.WithSession(ctx, session.Session{UserID: user}), nil
}

// requireUser is session for commands that must act on behalf of a user.
func (a *app) requireUser(ctx context.Context) (context.Context, error) {
	ctx, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	if session.UserID(ctx) == "" {
		return nil, fmt.Errorf("%w: run `agentctl user use <id>` or pass --user", agents.ErrNoUser)
	}
	return ctx, nil
}
