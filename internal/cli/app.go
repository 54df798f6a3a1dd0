// Package cli implements the apphub command line client. It plays the part
// of the browser shell: durable token storage, a navigation side channel and
// a render loop around the session manager and route guards.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mygroup/apphub/internal/client/authapi"
	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/client/tokenstore"
	"github.com/mygroup/apphub/internal/config"
)

// App carries the collaborators shared by every command. Fields left nil
// are derived from Config.
type App struct {
	Config *config.Config
	Out    io.Writer
	Logger *zap.Logger

	API      session.API
	Store    tokenstore.Store
	Prompter Prompter
	// Interactive enables prompts; false in tests and when stdin is piped.
	Interactive bool

	closers []func()
}

// NewApp wires an App from configuration.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		Config:      cfg,
		Out:         os.Stdout,
		Logger:      logger,
		Prompter:    huhPrompter{},
		Interactive: isInteractive(),
	}
}

func (a *App) api() session.API {
	if a.API == nil {
		a.API = authapi.New(a.Config.Client.APIBaseURL, &http.Client{Timeout: a.Config.App.RequestTimeout()})
	}
	return a.API
}

func (a *App) store() (tokenstore.Store, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	switch a.Config.Client.TokenStore {
	case "", "file":
		a.Store = tokenstore.NewFile(a.Config.Client.TokenFile)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.Store = tokenstore.NewRedis(client, a.Config.Client.TokenNamespace)
	default:
		return nil, fmt.Errorf("unknown token store %q", a.Config.Client.TokenStore)
	}
	return a.Store, nil
}

// Close releases connections opened for the token store.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

// manager builds a session manager for one command invocation.
func (a *App) manager(ctx context.Context) (*session.Manager, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	return session.New(ctx, session.Deps{
		API:       a.api(),
		Store:     store,
		Navigator: a.navigator(),
		Logger:    a.Logger,
	}), nil
}

func (a *App) navigator() session.Navigator {
	return session.NavigatorFunc(func(path string) {
		fmt.Fprintln(a.Out, navStyle.Render("→ "+path))
	})
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
