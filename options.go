package desim

// schedulerOptions holds configuration options for Scheduler creation.
type schedulerOptions struct {
	name           string
	now            float64
	metricsEnabled bool
}

// SchedulerOption configures a Scheduler instance.
type SchedulerOption interface {
	applyScheduler(*schedulerOptions)
}

type schedulerOptionFunc func(*schedulerOptions)

func (f schedulerOptionFunc) applyScheduler(opts *schedulerOptions) { f(opts) }

// WithName sets the Scheduler's name, returned by Scheduler.Name. The
// name is not otherwise used; structured log records do not include it.
func WithName(name string) SchedulerOption {
	return schedulerOptionFunc(func(opts *schedulerOptions) {
		opts.name = name
	})
}

// WithClock sets the Scheduler's initial virtual-time value. It defaults
// to 0.0.
func WithClock(now float64) SchedulerOption {
	return schedulerOptionFunc(func(opts *schedulerOptions) {
		opts.now = now
	})
}

// WithMetrics enables runtime counters on the Scheduler, retrievable via
// Scheduler.Metrics. Disabled by default to keep the hot path allocation
// free.
func WithMetrics(enabled bool) SchedulerOption {
	return schedulerOptionFunc(func(opts *schedulerOptions) {
		opts.metricsEnabled = enabled
	})
}

func resolveSchedulerOptions(opts []SchedulerOption) *schedulerOptions {
	cfg := &schedulerOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyScheduler(cfg)
	}
	return cfg
}

// processOptions holds configuration for a single Add/AddIn/AddAt call.
type processOptions struct {
	tags []Tag
}

// ProcessOption configures a single spawned Process.
type ProcessOption interface {
	applyProcess(*processOptions)
}

type processOptionFunc func(*processOptions)

func (f processOptionFunc) applyProcess(opts *processOptions) { f(opts) }

// WithTags declares the tags a spawned Process's body carries. The
// Process's final tag set is the union of these tags and the spawning
// Process's own tags (if any); see TagSet.
func WithTags(tags ...Tag) ProcessOption {
	return processOptionFunc(func(opts *processOptions) {
		opts.tags = append(opts.tags, tags...)
	})
}

func resolveProcessOptions(opts []ProcessOption) *processOptions {
	cfg := &processOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyProcess(cfg)
	}
	return cfg
}
