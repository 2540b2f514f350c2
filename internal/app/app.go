package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/phillipc0/cubing-competition-api/external/wca"
	"github.com/phillipc0/cubing-competition-api/external/wcalive"
	"github.com/phillipc0/cubing-competition-api/internal/config"
	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	sourcecache "github.com/phillipc0/cubing-competition-api/internal/infrastructure/source/cache"
	"github.com/phillipc0/cubing-competition-api/internal/interfaces/httpapi"
	"github.com/phillipc0/cubing-competition-api/internal/platform/cache"
	idgen "github.com/phillipc0/cubing-competition-api/internal/platform/id"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
)

// App owns the HTTP server and the background workers feeding its caches.
type App struct {
	Server *http.Server

	cfg         config.Config
	logger      *logging.Logger
	prefetcher  *usecase.PrefetchService
	liveWatcher *usecase.LiveWatchService

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	wcaClient := wca.NewClient(wca.ClientConfig{
		APIBaseURL:     cfg.WCAAPIBaseURL,
		OriginURL:      cfg.WCAOriginURL,
		Timeout:        cfg.WCATimeout,
		MaxRetries:     cfg.WCAMaxRetries,
		RetryBackoff:   cfg.WCARetryBackoff,
		Logger:         logger.Named("wca"),
		CircuitBreaker: cfg.WCACircuit,
	})
	liveClient := wcalive.NewClient(wcalive.ClientConfig{
		Endpoint:       cfg.WCALiveURL,
		Timeout:        cfg.WCALiveTimeout,
		MaxRetries:     cfg.WCALiveMaxRetries,
		RetryBackoff:   cfg.WCALiveRetryBackoff,
		Logger:         logger.Named("wcalive"),
		CircuitBreaker: cfg.WCALiveCircuit,
	})

	a := &App{cfg: cfg, logger: logger}

	var (
		competitionSource competition.Source = wcaClient
		wcifSource        wcif.Source        = wcaClient
		liveSource        live.Source        = liveClient
		prefetcher        usecase.Prefetcher
		liveWatcher       usecase.LiveWatcher
	)
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		competitionSource = sourcecache.NewCompetitionSource(wcaClient, store)
		wcifSource = sourcecache.NewWcifSource(wcaClient, store)

		// Live results have their own store on the shorter TTL.
		cachedLive := sourcecache.NewLiveSource(liveClient, cache.NewStore(cfg.LiveCacheTTL), cfg.LiveCacheTTL)
		liveSource = cachedLive

		if cfg.PrefetchEnabled {
			svc, err := usecase.NewPrefetchService(wcifSource, usecase.PrefetchConfig{
				Workers: cfg.PrefetchWorkers,
				Limit:   cfg.PrefetchLimit,
				Timeout: cfg.PrefetchTimeout,
			}, logger.Named("prefetch"))
			if err != nil {
				return nil, fmt.Errorf("build prefetch service: %w", err)
			}
			a.prefetcher = svc
			prefetcher = svc
		}
		if cfg.LiveWatchEnabled {
			a.liveWatcher = usecase.NewLiveWatchService(cachedLive, usecase.LiveWatchConfig{
				PollInterval: cfg.LivePollInterval,
				Idle:         cfg.LiveWatchIdle,
				Workers:      cfg.LiveWatchWorkers,
			}, logger.Named("livewatch"))
			liveWatcher = a.liveWatcher
		}
	}

	competitionSvc := usecase.NewCompetitionService(competitionSource, prefetcher, usecase.CompetitionServiceConfig{
		PerPage: cfg.CompetitionsPerPage,
	}, logger)
	scheduleSvc := usecase.NewScheduleService(wcifSource, usecase.ScheduleServiceConfig{
		DefaultLocation: cfg.ScheduleTimezone,
		SortWithinDay:   cfg.ScheduleSortWithinDay,
		Groups:          wcif.GroupOptions{Order: cfg.GroupsOrder, Roles: cfg.GroupsRoles},
		CollationTag:    cfg.CollationLanguage,
	})
	resultsSvc := usecase.NewResultsService(liveSource, liveWatcher)

	handler := httpapi.NewHandler(competitionSvc, scheduleSvc, resultsSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestIDs:         idgen.NewUUIDGenerator(),
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// Start launches background workers. They stop on Shutdown or when ctx ends.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	if a.liveWatcher == nil {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.logger.Info("live watcher starting", "poll_interval", a.cfg.LivePollInterval.String())
		a.liveWatcher.Run(ctx)
	}()
}

// Shutdown stops the HTTP server first, then the workers behind it.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	if a.liveWatcher != nil {
		a.liveWatcher.Close()
	}
	if a.prefetcher != nil {
		if err := a.prefetcher.Close(a.cfg.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("close prefetch pool: %w", err))
		}
	}

	return errors.Join(errs...)
}
