package scheduler

import (
	"context"
	"math/rand"
	"time"

	"sneakwatch/internal/client"
	"sneakwatch/internal/database"
	"sneakwatch/internal/model"
)

const (
	cacheClearInterval   = 7 * 24 * time.Hour
	ratesRefreshInterval = 12 * time.Hour

	// DefaultJitterMax spreads concurrent fetches over a uniform random
	// delay so a refresh cycle never bursts against the marketplaces.
	DefaultJitterMax = time.Second
)

// Scheduler drives the periodic control loop: refresh prices for
// active items, refresh exchange rates, evaluate alerts and fire
// notifications, and re-arm itself when settings change.
type Scheduler struct {
	DB       database.Database
	Client   fetcher
	Notifier Notifier
	Logger   logger

	// DevLogging is forwarded to the scraper service config.
	DevLogging bool
	JitterMax  time.Duration

	now   func() time.Time
	rearm chan time.Duration
}

// fetcher is the slice of the scraper client the scheduler needs.
type fetcher interface {
	GetItemPrices(ctx context.Context, item model.Item, config client.APIConfig) (model.Item, error)
	GetExchangeRates(ctx context.Context, config client.APIConfig) (model.ExchangeRates, error)
}

// Notifier delivers one local notification. Delivery failures are
// logged and otherwise ignored.
type Notifier interface {
	Push(title, body string) error
}

type logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

func (s *Scheduler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Run arms the periodic tasks and subscribes to settings changes. It
// returns immediately; the loops stop when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	settings := s.DB.Settings()
	s.rearm = make(chan time.Duration, 1)

	go s.priceLoop(ctx, time.Duration(settings.UpdateInterval)*time.Minute)
	go s.intervalLoop(ctx, cacheClearInterval, "cache clear", func(context.Context) {
		if err := s.DB.ClearItemCache(); err != nil {
			s.Logger.Errorf("Run: Error clearing item cache, err: %v", err)
		}
	})
	go s.intervalLoop(ctx, ratesRefreshInterval, "exchange rates", s.RefreshExchangeRates)

	s.DB.ListenToSettingsChanges(func(old *model.Settings, cur model.Settings) {
		if old == nil {
			return
		}
		if old.UpdateInterval != cur.UpdateInterval {
			s.Logger.Infof("Run: Update interval changed from %d to %d minute(s), re-arming price refresh",
				old.UpdateInterval, cur.UpdateInterval)
			s.Rearm(time.Duration(cur.UpdateInterval) * time.Minute)
		}
		if feeSettingsChanged(*old, cur) {
			s.Logger.Infof("Run: Fee-relevant settings changed, forcing a price refresh")
			go s.RunCycle(ctx, true)
		}
	})
}

// Rearm replaces the price-refresh period without waiting for the
// current interval to expire.
func (s *Scheduler) Rearm(period time.Duration) {
	for {
		select {
		case s.rearm <- period:
			return
		case <-s.rearm:
		}
	}
}

// feeSettingsChanged reports whether a change invalidates previously
// fetched fee-inclusive prices.
func feeSettingsChanged(old, cur model.Settings) bool {
	return old.Currency.Code != cur.Currency.Code || old.FeeCalculation != cur.FeeCalculation
}

func (s *Scheduler) priceLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RunCycle(ctx, false)
		case period = <-s.rearm:
			ticker.Reset(period)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) intervalLoop(ctx context.Context, period time.Duration, name string, task func(context.Context)) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Logger.Debugf("intervalLoop: Running %s task", name)
			task(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) apiConfig(settings model.Settings) client.APIConfig {
	return client.NewAPIConfig(settings, s.DB.ExchangeRates(), s.DevLogging)
}

func (s *Scheduler) fetchJitter() time.Duration {
	if s.JitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(s.JitterMax)))
}

// RefreshExchangeRates fetches a fresh FX snapshot. On failure the
// last known rates stay untouched.
func (s *Scheduler) RefreshExchangeRates(ctx context.Context) {
	rates, err := s.Client.GetExchangeRates(ctx, s.apiConfig(s.DB.Settings()))
	if err != nil {
		s.Logger.Errorf("RefreshExchangeRates: Error fetching exchange rates, err: %v", err)
		return
	}
	rates.Updated = s.clock()
	if err := s.DB.SaveExchangeRates(rates); err != nil {
		s.Logger.Errorf("RefreshExchangeRates: Error saving exchange rates, err: %v", err)
	}
}
