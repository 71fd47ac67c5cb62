// Package main is the entry point for the todosync CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"todosync/internal/backend/googletasks"
	"todosync/internal/backend/resthttp"
	"todosync/internal/cli"
	"todosync/internal/commands"
	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/store"
	"todosync/internal/transport"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
		var tp transport.Transport
		var err error
		switch cfg.Backend {
		case config.BackendGoogleTasks:
			tp, err = googletasks.New(ctx, cfg)
		case config.BackendREST:
			tp, err = resthttp.New(cfg)
		default:
			err = fmt.Errorf("unknown backend: %s", cfg.Backend)
		}
		if err != nil {
			return nil, err
		}

		var logger *slog.Logger
		if cfg.Debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		}
		return engine.New(tp, store.New(), logger), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
