package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/sitecms/pkg/logger"
	"github.com/charlesng35/sitecms/pkg/metrics"
)

const (
	defaultCacheSweepSpec     = "@every 1m"
	defaultRateLimitSweepSpec = "@every 5m"
	defaultCachePurgeSpec     = "@hourly"
	defaultJobTimeout         = 30 * time.Second
)

// Job names reported in logs and metrics.
const (
	JobCacheSweep     = "cache_sweep"
	JobRateLimitSweep = "ratelimit_sweep"
	JobCachePurge     = "cache_purge"
)

// Sweeper drops expired in-memory entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// Purger deletes expired persisted entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Cleaner schedules housekeeping for the response cache, the in-memory rate limiter windows
// and expired rows of the shared cache table.
type Cleaner struct {
	cache     Sweeper
	windows   Sweeper
	cacheRows Purger
	cron      *cron.Cron
	log       *zap.Logger
	timeout   time.Duration

	cacheSchedule     string
	rateLimitSchedule string
	purgeSchedule     string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithCacheSweep enables sweeping of the in-memory response cache.
func WithCacheSweep(s Sweeper, spec string) Option {
	return func(cleaner *Cleaner) {
		cleaner.cache = s
		if spec != "" {
			cleaner.cacheSchedule = spec
		}
	}
}

// WithRateLimitSweep enables sweeping of expired in-memory limiter windows.
func WithRateLimitSweep(s Sweeper, spec string) Option {
	return func(cleaner *Cleaner) {
		cleaner.windows = s
		if spec != "" {
			cleaner.rateLimitSchedule = spec
		}
	}
}

// WithCachePurge enables purging of expired rows from the database cache store.
func WithCachePurge(p Purger, spec string) Option {
	return func(cleaner *Cleaner) {
		cleaner.cacheRows = p
		if spec != "" {
			cleaner.purgeSchedule = spec
		}
	}
}

// WithJobTimeout bounds each job run.
func WithJobTimeout(timeout time.Duration) Option {
	return func(cleaner *Cleaner) {
		if timeout > 0 {
			cleaner.timeout = timeout
		}
	}
}

// NewCleaner constructs a Cleaner. Jobs without a configured target are skipped.
func NewCleaner(opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		timeout:           defaultJobTimeout,
		cacheSchedule:     defaultCacheSweepSpec,
		rateLimitSchedule: defaultRateLimitSweepSpec,
		purgeSchedule:     defaultCachePurgeSpec,
		log:               logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

type job struct {
	name string
	spec string
	run  func(ctx context.Context) (int64, error)
}

func (c *Cleaner) jobs() []job {
	var jobs []job
	if c.cache != nil {
		jobs = append(jobs, job{name: JobCacheSweep, spec: c.cacheSchedule, run: sweep(c.cache)})
	}
	if c.windows != nil {
		jobs = append(jobs, job{name: JobRateLimitSweep, spec: c.rateLimitSchedule, run: sweep(c.windows)})
	}
	if c.cacheRows != nil {
		jobs = append(jobs, job{name: JobCachePurge, spec: c.purgeSchedule, run: c.cacheRows.PurgeExpired})
	}
	return jobs
}

func sweep(s Sweeper) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) {
		return int64(s.Sweep()), nil
	}
}

// Start registers the configured jobs and launches the scheduler when there is at least one.
func (c *Cleaner) Start() error {
	jobs := c.jobs()
	if len(jobs) == 0 {
		return nil
	}

	for _, j := range jobs {
		j := j
		if _, err := c.cron.AddFunc(j.spec, func() {
			_ = c.execute(context.Background(), j)
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", j.name, err)
		}
	}

	c.cron.Start()
	c.log.Info("maintenance scheduler started", zap.Int("jobs", len(jobs)))
	return nil
}

// Stop halts the underlying scheduler. The returned context is done once running jobs finish.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every configured job sequentially and aggregates their errors.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, j := range c.jobs() {
		errs = multierr.Append(errs, c.execute(ctx, j))
	}
	return errs
}

func (c *Cleaner) execute(ctx context.Context, j job) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	removed, err := j.run(ctx)
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues(j.name, "failure").Inc()
		c.log.Warn("maintenance job failed", zap.String("job", j.name), zap.Error(err))
		return fmt.Errorf("%s: %w", j.name, err)
	}

	metrics.MaintenanceRuns.WithLabelValues(j.name, "success").Inc()
	if removed > 0 {
		c.log.Debug("maintenance job completed",
			zap.String("job", j.name),
			zap.Int64("removed", removed),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return nil
}

// ErrNoJobs is returned by Validate when nothing would be scheduled.
var ErrNoJobs = errors.New("maintenance: no jobs configured")

// Validate parses every schedule without starting the scheduler.
func (c *Cleaner) Validate() error {
	jobs := c.jobs()
	if len(jobs) == 0 {
		return ErrNoJobs
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	var errs error
	for _, j := range jobs {
		if _, err := parser.Parse(j.spec); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", j.name, err))
		}
	}
	return errs
}
