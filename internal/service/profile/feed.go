package profile

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/metrics"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/cache"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/lib/pq"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ErrCircuitOpen is recorded when a refresh is skipped because the store keeps failing.
var ErrCircuitOpen = stderrors.New("profile store circuit open")

// Loader fetches the profile document.
type Loader interface {
	Load(ctx context.Context) (*domain.Profile, error)
}

// ProjectLister fetches the stored project list.
type ProjectLister interface {
	List(ctx context.Context) ([]domain.Project, error)
}

// Notifier delivers change notifications. *pq.Listener satisfies it; a nil
// notification signals a reconnect after which state may have been missed.
type Notifier interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

type FeedConfig struct {
	// Interval between polls; clamped to a minimum, 0 disables polling.
	Interval time.Duration
	// ListenerDSN and NotifyChannel enable LISTEN/NOTIFY on postgres.
	ListenerDSN   string
	NotifyChannel string
	CacheTTL      time.Duration
	DocumentID    string
}

// Feed keeps a SnapshotStore current. It pulls on a ticker and on store
// notifications, loading the profile and stored projects in parallel.
type Feed struct {
	loader   Loader
	projects ProjectLister
	store    *SnapshotStore
	cache    *cache.CacheService
	breaker  *util.CircuitBreaker
	metrics  *metrics.Metrics
	notifier Notifier
	cfg      FeedConfig
	logger   *zap.Logger

	refreshMu sync.Mutex
}

type FeedDependencies struct {
	Loader   Loader
	Projects ProjectLister
	Store    *SnapshotStore
	Cache    *cache.CacheService
	Metrics  *metrics.Metrics
	// Notifier overrides the pq.Listener built from ListenerDSN.
	Notifier Notifier
	Logger   *zap.Logger
}

func NewFeed(deps FeedDependencies, cfg FeedConfig) *Feed {
	logger := util.LoggerOrNop(deps.Logger)
	store := deps.Store
	if store == nil {
		store = NewSnapshotStore()
	}
	if cfg.Interval > 0 && cfg.Interval < constants.RefreshConfig.MinInterval {
		cfg.Interval = constants.RefreshConfig.MinInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.CacheTTL.ProfileSnapshot
	}

	return &Feed{
		loader:   deps.Loader,
		projects: deps.Projects,
		store:    store,
		cache:    deps.Cache,
		breaker: util.NewCircuitBreaker("profile-store",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		metrics:  deps.Metrics,
		notifier: deps.Notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (f *Feed) Store() *SnapshotStore {
	return f.store
}

func (f *Feed) Breaker() *util.CircuitBreaker {
	return f.breaker
}

// Refresh loads the profile and stored projects once. On a profile failure the
// previous snapshot is kept; with no previous snapshot the cached copy is used.
func (f *Feed) Refresh(ctx context.Context) error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	started := time.Now()

	if !f.breaker.CanExecute() {
		f.store.SetError(ErrCircuitOpen)
		f.restoreFromCache(ctx)
		f.metrics.ObserveRefresh(metrics.RefreshSkipped, time.Since(started))
		return ErrCircuitOpen
	}

	loadCtx, cancel := context.WithTimeout(ctx, constants.RefreshConfig.LoadTimeout)
	defer cancel()

	var (
		profile     *domain.Profile
		profileErr  error
		projects    []domain.Project
		projectsErr error
	)

	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() {
		if f.loader == nil {
			return
		}
		profile, profileErr = f.loader.Load(loadCtx)
	})
	p.Go(func() {
		if f.projects == nil {
			return
		}
		projects, projectsErr = f.projects.List(loadCtx)
	})
	p.Wait()

	if projectsErr != nil {
		f.logger.Warn("Stored projects refresh failed, keeping previous list", zap.Error(projectsErr))
	} else if f.projects != nil {
		f.store.SetProjects(projects)
	}

	if profileErr != nil {
		f.breaker.RecordFailure()
		f.store.SetError(profileErr)
		f.logger.Error("Profile refresh failed", zap.Error(profileErr))

		result := metrics.RefreshError
		if f.restoreFromCache(ctx) {
			result = metrics.RefreshCached
		}
		f.metrics.ObserveRefresh(result, time.Since(started))
		return fmt.Errorf("failed to refresh profile: %w", profileErr)
	}

	f.breaker.RecordSuccess()
	f.store.SetProfile(profile)
	f.saveToCache(ctx, profile)
	f.metrics.ObserveRefresh(metrics.RefreshOK, time.Since(started))

	f.logger.Debug("Profile refreshed",
		zap.Bool("present", profile != nil),
		zap.Int("stored_projects", len(projects)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// Run refreshes once, then keeps refreshing until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	_ = f.Refresh(ctx)

	notifier, err := f.openNotifier()
	if err != nil {
		f.logger.Warn("Profile change listener unavailable, polling only", zap.Error(err))
	}
	if notifier != nil {
		defer notifier.Close()
	}

	var tick <-chan time.Time
	if f.cfg.Interval > 0 {
		ticker := time.NewTicker(f.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var notifications <-chan *pq.Notification
	if notifier != nil {
		notifications = notifier.NotificationChannel()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			if notifier != nil {
				go func() {
					if err := notifier.Ping(); err != nil {
						f.logger.Debug("Profile change listener ping failed", zap.Error(err))
					}
				}()
			}
			_ = f.Refresh(ctx)
		case n, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			if n != nil {
				f.logger.Debug("Profile change notification",
					zap.String("channel", n.Channel),
					zap.String("payload", n.Extra),
				)
			}
			_ = f.Refresh(ctx)
		}
	}
}

func (f *Feed) openNotifier() (Notifier, error) {
	if f.notifier != nil {
		return f.notifier, nil
	}
	if f.cfg.ListenerDSN == "" || f.cfg.NotifyChannel == "" {
		return nil, nil
	}

	listener := pq.NewListener(f.cfg.ListenerDSN,
		constants.RefreshConfig.ListenerMinBackoff,
		constants.RefreshConfig.ListenerMaxBackoff,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				f.logger.Warn("Profile change listener event", zap.Int("event", int(event)), zap.Error(err))
			}
		},
	)
	if err := listener.Listen(f.cfg.NotifyChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", f.cfg.NotifyChannel, err)
	}

	f.logger.Info("Listening for profile changes", zap.String("channel", f.cfg.NotifyChannel))
	return listener, nil
}

func (f *Feed) cacheKey() string {
	return fmt.Sprintf(constants.CacheKeys.ProfileSnapshot, f.cfg.DocumentID)
}

func (f *Feed) saveToCache(ctx context.Context, profile *domain.Profile) {
	if f.cache == nil || profile == nil {
		return
	}
	if err := f.cache.Set(ctx, f.cacheKey(), profile, f.cfg.CacheTTL); err != nil {
		f.logger.Warn("Failed to cache profile snapshot", zap.Error(err))
	}
}

// restoreFromCache fills an empty store from the cached snapshot.
func (f *Feed) restoreFromCache(ctx context.Context) bool {
	if f.cache == nil || f.store.Snapshot() != nil {
		return false
	}

	var cached *domain.Profile
	found, err := f.cache.Get(ctx, f.cacheKey(), &cached)
	if err != nil || !found || cached == nil {
		return false
	}

	f.store.Restore(cached)
	f.logger.Info("Profile restored from cache", zap.String("key", f.cacheKey()))
	return true
}
