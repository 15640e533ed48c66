package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"frameops/internal/api"
	"frameops/internal/config"
	"frameops/internal/console"
	"frameops/internal/logging"
	"frameops/internal/push"
	"frameops/internal/selection"
	"frameops/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app bundles everything one command invocation needs: the session store,
// the gateway, the selection engine and the screen registry, wired together
// and torn down when the command returns.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *session.Store
	client   *api.Client
	engine   *selection.Engine
	registry *console.Registry
	out      *console.LockedWriter
}

func (c *commandContext) withApp(cmd *cobra.Command, fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	log, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	store, err := session.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("close session store", "error", closeErr)
		}
	}()

	out := console.NewLockedWriter(cmd.OutOrStdout())
	client := api.New(cfg, store.SessionID(), log)
	engine := selection.NewEngine(store, client, log)
	registry := console.NewRegistry(store, log)
	registry.Register(console.NewDashboardScreen(client, out))
	registry.Register(console.NewVideosScreen(client, store, out, cfg.Console.PageSize))
	registry.Register(console.NewFramesScreen(client, store, engine, out))
	registry.Register(console.NewTrainingScreen(client, store, out, cfg.Console.PageSize))
	registry.Register(console.NewQdrantScreen(client, store, out, cfg.Console.PageSize))
	client.SetRefresher(registry)

	return fn(&app{
		cfg:      cfg,
		log:      log,
		store:    store,
		client:   client,
		engine:   engine,
		registry: registry,
		out:      out,
	})
}

// newChannel builds the push channel bound to the app's session.
func (a *app) newChannel() *push.Channel {
	return push.NewChannel(a.cfg, a.store.SessionID(), console.StoreScheduler{Store: a.store}, a.log)
}

// showScreen activates a screen and reloads it immediately.
func (a *app) showScreen(cmd *cobra.Command, name string) error {
	if err := a.registry.Activate(name); err != nil {
		return err
	}
	return a.registry.Reload(cmd.Context(), name)
}
