package api

import (
	"time"

	"ham-kiosk/dashboard/internal/common"
	"ham-kiosk/dashboard/internal/config"
	"ham-kiosk/dashboard/internal/controllers"
	"ham-kiosk/dashboard/internal/events"
	"ham-kiosk/dashboard/internal/fetch"
	"ham-kiosk/dashboard/internal/metrics"
	"ham-kiosk/dashboard/internal/quotes"
	"ham-kiosk/dashboard/internal/scheduler"
)

// Controllers groups the per-source data controllers and the card
// layer they feed.
type Controllers struct {
	Spots  *controllers.SpotsController
	Solar  *controllers.SolarController
	Bands  *controllers.BandsController
	Quotes *controllers.QuotesController
	Cards  *controllers.CardsController
}

// Dependencies wires the whole data pipeline together.
type Dependencies struct {
	Cfg         *config.Config
	Bus         *events.Bus
	Cache       common.CacheInterface
	Metrics     *metrics.MetricsRegistry
	Fetcher     *fetch.ProxyFetcher
	Controllers *Controllers
	Scheduler   *scheduler.Scheduler
	UpSince     time.Time
}

// InitDependencies builds the pipeline from configuration. Controllers
// are subscribed to the bus; the scheduler is returned unstarted so the
// caller controls when the first refresh fires.
func InitDependencies(cfg *config.Config) *Dependencies {
	bus := events.NewBus()
	cacheSvc := common.NewCacheService(600, 1200)
	m := metrics.NewMetricsRegistry()

	fetcher := fetch.NewProxyFetcher(cfg.Proxies, cfg.FetchTimeout())
	fetcher.SetAttemptObserver(func(outcome string) {
		m.ProxyAttemptsTotal.WithLabelValues(outcome).Inc()
	})

	ctrls := &Controllers{
		Spots:  controllers.NewSpotsController(cfg, bus, fetcher, cacheSvc, m),
		Solar:  controllers.NewSolarController(cfg, bus, fetcher, cacheSvc, m),
		Bands:  controllers.NewBandsController(bus, cacheSvc, m),
		Quotes: controllers.NewQuotesController(bus, cacheSvc, m, quotes.NewRotator(quotes.Corpus, time.Now().UnixNano())),
		Cards:  controllers.NewCardsController(cfg, bus, nil),
	}
	ctrls.Spots.Start()
	ctrls.Solar.Start()
	ctrls.Bands.Start()
	ctrls.Quotes.Start()
	ctrls.Cards.Start()

	sched := scheduler.New(bus, map[string]time.Duration{
		scheduler.SourceSpots:  cfg.Interval(scheduler.SourceSpots),
		scheduler.SourceSolar:  cfg.Interval(scheduler.SourceSolar),
		scheduler.SourceBands:  cfg.Interval(scheduler.SourceBands),
		scheduler.SourceQuotes: cfg.Interval(scheduler.SourceQuotes),
	})

	return &Dependencies{
		Cfg:         cfg,
		Bus:         bus,
		Cache:       cacheSvc,
		Metrics:     m,
		Fetcher:     fetcher,
		Controllers: ctrls,
		Scheduler:   sched,
		UpSince:     time.Now(),
	}
}

// Shutdown detaches controllers and stops the scheduler.
func (d *Dependencies) Shutdown() {
	d.Scheduler.Stop()
	d.Controllers.Cards.Stop()
	d.Controllers.Spots.Stop()
	d.Controllers.Solar.Stop()
	d.Controllers.Bands.Stop()
	d.Controllers.Quotes.Stop()
}
