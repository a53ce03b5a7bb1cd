package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidscribe/internal/api"
	"vidscribe/internal/config"
	"vidscribe/internal/history"
	"vidscribe/internal/i18n"
	"vidscribe/internal/log"
	loglogrus "vidscribe/internal/log/logrus"
	"vidscribe/internal/model"
	"vidscribe/internal/printer"
	"vidscribe/internal/progress"
	"vidscribe/internal/session"
	"vidscribe/internal/status"
	"vidscribe/internal/storage"
	"vidscribe/internal/storage/memory"
	"vidscribe/internal/storage/sqlite"
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	opts   model.CLIOptions
	logger log.Logger
	cat    *i18n.Catalog
}

type ctxKey string

const appKey ctxKey = "app"

func withApp(ctx context.Context, a *app) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, appKey, a)
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey).(*app)
	return a
}

func newApp(v *viper.Viper, cmd *cobra.Command) (*app, error) {
	if err := config.Init(v, cmd.Flags(), ".env"); err != nil {
		return nil, err
	}
	opts, err := config.Options(v)
	if err != nil {
		return nil, err
	}
	return &app{
		opts:   opts,
		logger: newLogger(opts, cmd.ErrOrStderr()),
		cat:    i18n.New(opts.SummaryLanguage),
	}, nil
}

func newLogger(opts model.CLIOptions, w io.Writer) log.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	if opts.Verbose {
		l.SetLevel(logrus.InfoLevel)
	}
	if opts.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	if opts.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return loglogrus.NewLogrus(logrus.NewEntry(l)).WithValues(log.Kv{"app": "vidscribe"})
}

func (a *app) client(logger log.Logger) (*api.Client, error) {
	return api.NewClient(api.ClientConfig{
		BaseURL: a.opts.ServerURL,
		Timeout: a.opts.Timeout,
		Logger:  logger,
	})
}

// openStore opens the local history cache. The returned func closes it.
func (a *app) openStore(ctx context.Context, logger log.Logger) (storage.Repository, func(), error) {
	if a.opts.NoCache {
		r, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	}

	r, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: a.opts.DBPath, Logger: logger})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open history cache %s: %w", a.opts.DBPath, err)
	}
	return r, func() { _ = r.Close() }, nil
}

// openStoreOrMemory never fails: sessions still run when the cache is broken.
func (a *app) openStoreOrMemory(ctx context.Context, logger log.Logger) (storage.Repository, func()) {
	r, closeFn, err := a.openStore(ctx, logger)
	if err == nil {
		return r, closeFn
	}
	logger.Warningf("%s, results will not be cached", err)
	mem, _ := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
	return mem, func() {}
}

func (a *app) history(ctx context.Context) (*history.Service, func(), error) {
	client, err := a.client(a.logger)
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := a.openStore(ctx, a.logger)
	if err != nil {
		return nil, nil, err
	}
	hs, err := history.NewService(history.ServiceConfig{Remote: client, Store: store, Logger: a.logger})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return hs, closeFn, nil
}

func (a *app) printer(cmd *cobra.Command) (printer.Printer, error) {
	return printer.New(a.opts.Output, cmd.OutOrStdout())
}

// sessionFactory builds sessions sharing one client and cache.
func (a *app) sessionFactory(client *api.Client, store storage.Repository, logger log.Logger) func(progress.Reporter) (*session.Service, error) {
	newChannel := func(taskID string) (session.Channel, error) {
		ch, err := status.NewChannel(status.ChannelConfig{TaskID: taskID, Source: client, Logger: logger})
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
	return func(rep progress.Reporter) (*session.Service, error) {
		return session.NewService(
			session.WithSubmitter(client),
			session.WithChannelFactory(newChannel),
			session.WithReporter(rep),
			session.WithLogger(logger),
			session.WithStore(store),
			session.WithSummaryLanguage(a.opts.SummaryLanguage),
			session.WithOutDir(a.opts.OutDir),
		)
	}
}
