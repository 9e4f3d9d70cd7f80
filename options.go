package orbmatch

import (
	"log/slog"
	"time"

	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/codec"
	"github.com/hupe1980/orbmatch/matcher"
	"github.com/hupe1980/orbmatch/resource"
)

// DefaultCategories are the categories an Engine serves unless
// WithCategories overrides them.
var DefaultCategories = []string{
	"summon/party_main",
	"summon/party_sub",
	"weapon/main",
	"weapon/normal",
	"priority/weapon/main",
	"priority/weapon/normal",
	"chara",
}

// DefaultBatchConcurrency bounds how many queries of one MatchEncoded call
// are matched at once.
const DefaultBatchConcurrency = 8

type options struct {
	codec            codec.Codec
	suffix           string
	categories       []string
	resources        resource.Config
	loadTimeout      time.Duration
	batchConcurrency int
	matchDefaults    matcher.Options
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Engine construction.
type Option func(*options)

// WithCodec configures the codec used for decoding artifacts.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithSuffix sets the blob name suffix appended to category names.
// Ignored by FromSource backends.
func WithSuffix(suffix string) Option {
	return func(o *options) {
		o.suffix = suffix
	}
}

// WithCategories replaces the configured category set.
func WithCategories(categories ...string) Option {
	return func(o *options) {
		o.categories = append([]string(nil), categories...)
	}
}

// WithResourceLimits bounds concurrent loads, artifact read throughput
// and resident reference memory.
//
// Example:
//
//	eng, _ := orbmatch.Open(ctx, orbmatch.Local("./cache"),
//	    orbmatch.WithResourceLimits(resource.Config{
//	        MaxConcurrentLoads: 2,
//	        MemoryLimitBytes:   512 << 20,
//	    }),
//	)
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

// WithLoadTimeout bounds each category load attempt. A timed out load is
// transient and retried by the next caller.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.loadTimeout = d
	}
}

// WithBatchConcurrency sets how many queries of a batch are matched
// concurrently. Values <= 0 keep the default.
func WithBatchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchConcurrency = n
		}
	}
}

// WithMatchDefaults replaces the per-call match defaults
// (threshold 10, top 3, ratio 0.75, no early exit).
func WithMatchDefaults(mo matcher.Options) Option {
	return func(o *options) {
		o.matchDefaults = mo
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &orbmatch.BasicMetricsCollector{}
//	eng, _ := orbmatch.Open(ctx, orbmatch.Local("./cache"), orbmatch.WithMetricsCollector(metrics))
//	// ... use engine ...
//	stats := metrics.GetStats()
//	fmt.Printf("Matches: %d, Loads: %d\n", stats.MatchCount, stats.LoadCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging (uses NoopLogger).
//
// Example with JSON logging:
//
//	logger := orbmatch.NewJSONLogger(slog.LevelInfo)
//	eng, _ := orbmatch.Open(ctx, orbmatch.Local("./cache"), orbmatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel is a convenience option to enable text logging at the specified level.
//
// Example:
//
//	eng, _ := orbmatch.Open(ctx, orbmatch.Local("./cache"), orbmatch.WithLogLevel(slog.LevelDebug))
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:            codec.Default,
		suffix:           artifact.DefaultSuffix,
		categories:       append([]string(nil), DefaultCategories...),
		batchConcurrency: DefaultBatchConcurrency,
		matchDefaults:    matcher.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// MatchOption overrides the engine's match defaults for one call.
type MatchOption func(*matcher.Options)

// WithThreshold sets the minimum confidence for a template to be reported.
func WithThreshold(n int) MatchOption {
	return func(o *matcher.Options) {
		o.Threshold = n
	}
}

// WithTopN limits the number of results. n <= 0 disables truncation.
func WithTopN(n int) MatchOption {
	return func(o *matcher.Options) {
		o.TopN = n
	}
}

// WithEarlyExit stops scoring at the first template reaching the threshold.
// The result then holds at most that one template.
func WithEarlyExit(on bool) MatchOption {
	return func(o *matcher.Options) {
		o.EarlyExit = on
	}
}

// WithRatio sets the nearest/second-nearest distance ratio.
func WithRatio(r float64) MatchOption {
	return func(o *matcher.Options) {
		o.Ratio = r
	}
}

// WithKeypoints reports which query descriptors matched each template.
func WithKeypoints() MatchOption {
	return func(o *matcher.Options) {
		o.Keypoints = true
	}
}
