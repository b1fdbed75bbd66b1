package mapper

import (
	"strconv"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/mapper/metrics"
)

// Discipline selects the order in which idle workers draw queued tasks.
type Discipline int

const (
	// FIFO draws tasks in submission order.
	FIFO Discipline = iota
	// LIFO draws the most recently submitted task first.
	LIFO
)

func (d Discipline) String() string {
	switch d {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "discipline(" + strconv.Itoa(int(d)) + ")"
	}
}

// config holds Pool configuration.
type config struct {
	// Discipline of the shared task queue.
	// Default: FIFO.
	Discipline Discipline

	// Logger receives worker lifecycle and Map completion records.
	// Default: zap.NewNop().
	Logger *zap.Logger

	// Metrics provides the instruments the pool records into.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider

	// RateLimit caps how many tasks per second the workers start, all workers combined.
	// Zero disables limiting.
	// Default: 0.
	RateLimit rate.Limit

	// RateBurst is the limiter bucket size. Only used when RateLimit > 0.
	RateBurst int

	// ErrorTagging wraps every task error with the index of its input element.
	// Default: false.
	ErrorTagging bool
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Discipline:   FIFO,
		Logger:       zap.NewNop(),
		Metrics:      metrics.NewNoopProvider(),
		RateLimit:    0,
		RateBurst:    0,
		ErrorTagging: false,
	}
}

// validateConfig checks invariants options cannot enforce individually.
func validateConfig(cfg *config) error {
	switch cfg.Discipline {
	case FIFO, LIFO:
	default:
		return errorc.With(ErrInvalidConfig, errorc.String("discipline", cfg.Discipline.String()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopProvider()
	}
	return nil
}

// limiter returns the shared task start limiter, or nil when limiting is disabled.
func (cfg *config) limiter() *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(cfg.RateLimit, cfg.RateBurst)
}

// Option configures a Pool. Use New(workers, opts...) to construct a Pool via options.
type Option func(*config) error

// WithFIFO makes workers draw tasks in submission order (the default).
func WithFIFO() Option {
	return func(cfg *config) error { cfg.Discipline = FIFO; return nil }
}

// WithLIFO makes workers draw the most recently submitted task first.
func WithLIFO() Option {
	return func(cfg *config) error { cfg.Discipline = LIFO; return nil }
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l != nil {
			cfg.Logger = l
		}
		return nil
	}
}

// WithMetrics sets the metrics provider. A nil provider keeps the no-op default.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p != nil {
			cfg.Metrics = p
		}
		return nil
	}
}

// WithRateLimit caps task starts to perSecond with the given burst (both must be > 0).
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *config) error {
		if perSecond <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("rate", "WithRateLimit requires perSecond > 0"))
		}
		if burst < 1 {
			return errorc.With(ErrInvalidConfig, errorc.String("burst", "WithRateLimit requires burst > 0"))
		}
		cfg.RateLimit = rate.Limit(perSecond)
		cfg.RateBurst = burst
		return nil
	}
}

// WithErrorTagging wraps task errors with the input index (see ExtractTaskIndex).
func WithErrorTagging() Option {
	return func(cfg *config) error { cfg.ErrorTagging = true; return nil }
}
