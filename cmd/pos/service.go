package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/scanpos/api/controllers"
	"github.com/angelmondragon/scanpos/api/routes"
	"github.com/angelmondragon/scanpos/internal/capture"
	"github.com/angelmondragon/scanpos/internal/catalog"
	"github.com/angelmondragon/scanpos/internal/display"
	"github.com/angelmondragon/scanpos/internal/scanner"
	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/config"
	"github.com/angelmondragon/scanpos/pkg/db"
	"github.com/angelmondragon/scanpos/pkg/logger"
	"github.com/angelmondragon/scanpos/pkg/metrics"
	"github.com/angelmondragon/scanpos/pkg/migrate"
	"github.com/angelmondragon/scanpos/pkg/redis"
)

const shutdownTimeout = 5 * time.Second

// ServiceParams configure the station service.
type ServiceParams struct {
	Logger  *logger.Logger
	Loop    *scanner.Loop
	Server  *http.Server
	Closers []io.Closer
}

// Service runs the frame loop and the HTTP adapter side by side.
type Service struct {
	logg    *logger.Logger
	loop    *scanner.Loop
	server  *http.Server
	closers []io.Closer
}

// NewService builds a station service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Loop == nil {
		return nil, fmt.Errorf("frame loop required")
	}
	return &Service{
		logg:    params.Logger,
		loop:    params.Loop,
		server:  params.Server,
		closers: params.Closers,
	}, nil
}

// Run blocks until the context is canceled or either side fails.
func (s *Service) Run(ctx context.Context) error {
	// nil unless a server runs, so the select below ignores it
	var serverErr chan error
	if s.server != nil {
		serverErr = make(chan error, 1)
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.server.Addr, err)
		}
		go func() {
			if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()
		s.logg.Info(s.logg.WithField(ctx, "addr", ln.Addr().String()), "http adapter listening")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- s.loop.Run(loopCtx) }()

	var runErr error
	select {
	case err := <-loopErr:
		runErr = err
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("http adapter: %w", err)
		}
		cancel()
		<-loopErr
	}

	if s.server != nil {
		shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer done()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			runErr = multierr.Append(runErr, fmt.Errorf("http shutdown: %w", err))
		}
	}
	return runErr
}

// Close releases every resource in reverse acquisition order.
func (s *Service) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	s.closers = nil
	return err
}

// Bootstrap opens the capture device and every optional backend, then wires
// the session between them. Resources opened before a failure are released.
func Bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (_ *Service, err error) {
	var closers []io.Closer
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				err = multierr.Append(err, closers[i].Close())
			}
		}
	}()

	source, err := capture.OpenDirSource(cfg.Scanner.FrameDir, capture.DirOptions{Loop: cfg.Scanner.FrameLoop})
	if err != nil {
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	closers = append(closers, source)
	logg.Info(logg.WithFields(ctx, map[string]any{"dir": cfg.Scanner.FrameDir, "frames": source.Len()}), "capture device opened")

	var dbClient *db.Client
	if cfg.Catalog.FromDB() {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		closers = append(closers, dbClient)
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return nil, fmt.Errorf("run dev migrations: %w", err)
		}
	}

	cat, err := loadCatalog(ctx, cfg, logg, dbClient)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	scanMetrics := metrics.NewScanMetrics(reg)

	notifiers := display.Multi{display.NewLogRenderer(logg)}
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		closers = append(closers, redisClient)
		publisher, err := display.NewRedisPublisher(display.RedisPublisherParams{
			Broker:      redisClient,
			Logger:      logg,
			Channel:     cfg.Display.Channel,
			SnapshotKey: redisClient.Key(cfg.Display.SnapshotKey),
			Timeout:     cfg.Display.PublishTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create display publisher: %w", err)
		}
		notifiers = append(notifiers, publisher)
	}

	sess, err := session.New(session.Params{
		Catalog:  cat,
		Cooldown: cfg.Scanner.Cooldown,
		Notifier: notifiers,
		Logger:   logg,
		Metrics:  scanMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logg.Info(logg.WithSessionID(ctx, sess.ID()), "session started")

	loop, err := scanner.NewLoop(scanner.LoopParams{
		Logger:   logg,
		Source:   source,
		Decoder:  capture.NewZXingDecoder(),
		Handler:  sess,
		Metrics:  scanMetrics,
		Interval: cfg.Scanner.TickInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("create frame loop: %w", err)
	}

	params := routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		Session:  sess,
		Catalog:  cat,
		Gatherer: reg,
	}
	if dbClient != nil {
		params.DB = dbClient
	}
	if redisClient != nil {
		params.Redis = redisClient
	}
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return NewService(ServiceParams{
		Logger:  logg,
		Loop:    loop,
		Server:  server,
		Closers: closers,
	})
}

func loadCatalog(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (controllers.Catalog, error) {
	if dbClient == nil {
		cat := catalog.Default()
		logg.Info(logg.WithField(ctx, "products", cat.Len()), "static catalog loaded")
		return cat, nil
	}

	repo := catalog.NewRepository(dbClient.DB())
	cat, err := catalog.Load(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if cat.Len() == 0 && cfg.App.IsDev() {
		logg.Warn(ctx, "catalog table empty; seeding default products")
		if err := dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return catalog.Seed(ctx, catalog.NewRepository(tx))
		}); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		if cat, err = catalog.Load(ctx, repo); err != nil {
			return nil, fmt.Errorf("reload catalog: %w", err)
		}
	}
	logg.Info(logg.WithField(ctx, "products", cat.Len()), "catalog loaded from database")
	return cat, nil
}
