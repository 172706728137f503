// Package app provides the aide server application.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"
	"github.com/spf13/viper"

	"github.com/aide-dev/aide/cmd/aide/app/options"
	"github.com/aide-dev/aide/internal/aide"
	"github.com/aide-dev/aide/pkg/app"
)

// Name is the name of the application.
const Name = "aide"

const commandDesc = "aide - document question answering over per-project knowledge bases"

// NewApp creates the application with its flags and run function.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		opts.LogOptions.AddInitialField("service", Name)
		if err := opts.LogOptions.Init(); err != nil {
			return err
		}

		watchConfig(opts)

		server, err := aide.NewServer(opts.Config())
		if err != nil {
			return err
		}

		ctx := setupSignalContext()
		return server.Run(ctx)
	}
}

// watchConfig applies log-level changes from the config file at runtime.
func watchConfig(opts *options.ServerOptions) {
	watcher := app.NewWatcher(viper.GetViper())
	watcher.Subscribe("log", func(v *viper.Viper) error {
		if err := v.UnmarshalKey("log", opts.LogOptions); err != nil {
			return err
		}
		return opts.LogOptions.Init()
	})
	watcher.Start()
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
// A second signal exits immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Infow("shutdown signal received")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
