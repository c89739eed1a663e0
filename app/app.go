package app

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/leshachaplin/convgate/app/waiter"
	"github.com/leshachaplin/convgate/internal/config"
	"github.com/leshachaplin/convgate/internal/dispatch/meta"
	"github.com/leshachaplin/convgate/internal/domain"
	"github.com/leshachaplin/convgate/internal/registry"
	appServer "github.com/leshachaplin/convgate/internal/server/http"
	"github.com/leshachaplin/convgate/internal/service"
)

const defaultAddr = ":8080"

type LoadConfigFn func() (config.Config, error)

type App struct {
	cfg      config.Config
	logger   zerolog.Logger
	server   *appServer.Server
	waiter   waiter.Waiter
	ctx      context.Context
	cancelFn context.CancelFunc
}

func New(loadConfigFn LoadConfigFn) *App {
	ctx, cancelFn := context.WithCancel(context.Background())
	cfg, err := loadConfigFn()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := NewZeroLogger(cfg.LogLevel)

	w := waiter.NewWaiter(ctx, cancelFn)

	return &App{
		cfg:      cfg,
		logger:   logger,
		waiter:   w,
		ctx:      ctx,
		cancelFn: cancelFn,
	}
}

func (a *App) Start() {
	defer a.cancelFn()

	eventRegistry, err := a.loadRegistry()
	if err != nil {
		a.logger.Fatal().Err(err).Msg("Could not load event registry.")
	}
	a.logger.Info().Int("events", eventRegistry.Len()).Msg("event registry loaded")

	if a.cfg.Sink.PixelID == "" || a.cfg.Sink.AccessToken == "" {
		a.logger.Warn().Msg("sink credentials are not configured, every dispatch will fail")
	}

	dispatcher := meta.New(a.cfg.Sink, a.logger.With().Str("SINK", "META").Logger())

	builder := service.NewBuilder(
		domain.ActionSource(a.cfg.DefaultActionSource),
		a.cfg.DefaultCurrency,
		a.logger.With().Str("SERVICE", "BUILDER").Logger(),
	)
	eventProcessor := service.New(eventRegistry, dispatcher, builder, a.logger.With().Str("SERVICE", "EVENT").Logger())
	handler := appServer.NewHandler(eventProcessor, a.logger)

	a.server = appServer.New(handler)

	a.waitForServer()

	if err = a.waiter.Wait(); err != nil {
		a.logger.Fatal().Err(err).Msg("App crash.")
	}
}

func (a *App) Stop() {
	a.cancelFn()
}

func (a *App) loadRegistry() (*registry.Registry, error) {
	if a.cfg.RegistryPath == "" {
		return registry.Default(), nil
	}
	return registry.Load(a.cfg.RegistryPath)
}

func (a *App) waitForServer() {
	addr := a.cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	a.waiter.Add(func(ctx context.Context) error {
		defer a.logger.Debug().Msg("server has been shutdown")

		group, gCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			defer a.logger.Debug().Msg("public server exited")
			a.logger.Info().Str("starting server at: ", addr).Send()
			err := a.server.ServePublic(addr)
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-gCtx.Done()
			log.Debug().Msg("shutting down the server")
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := a.server.ShutdownPublic(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("error while shutting down the server")
			}
			return nil
		})

		return group.Wait()
	})
}
