package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/resilience"
)

// Options bound every publish attempt.
type Options struct {
	Timeout          time.Duration
	Retry            resilience.RetryConfig
	BreakerThreshold int
	BreakerReset     time.Duration
}

func OptionsFrom(cfg config.SinkConfig) Options {
	return Options{
		Timeout: cfg.Timeout,
		Retry: resilience.RetryConfig{
			MaxAttempts:  cfg.RetryAttempts,
			InitialDelay: cfg.RetryBaseDelay,
			// JitterFraction < 0 selects the default jitter.
			JitterFraction: -1,
		},
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerReset:     cfg.BreakerReset,
	}
}

// Fanout publishes a run to every registered sink concurrently. Each sink
// gets its own circuit breaker; attempts are retried with backoff and bounded
// by Options.Timeout.
type Fanout struct {
	opts     Options
	metrics  *metrics.Metrics
	sinks    []Publisher
	breakers map[string]*resilience.CircuitBreaker
	logger   *slog.Logger
}

// NewFanout wires sinks behind circuit breakers. m may be nil.
func NewFanout(opts Options, m *metrics.Metrics, sinks ...Publisher) *Fanout {
	f := &Fanout{
		opts:     opts,
		metrics:  m,
		breakers: make(map[string]*resilience.CircuitBreaker, len(sinks)),
		logger:   logger.WithComponent("sink"),
	}
	for _, s := range sinks {
		f.Add(s)
	}
	return f
}

func (f *Fanout) Add(s Publisher) {
	name := s.Name()
	f.sinks = append(f.sinks, s)
	f.breakers[name] = resilience.NewCircuitBreaker("sink-"+name, resilience.CircuitBreakerConfig{
		FailureThreshold: f.opts.BreakerThreshold,
		ResetTimeout:     f.opts.BreakerReset,
		OnStateChange: func(_ string, _, to resilience.State) {
			if f.metrics != nil {
				f.metrics.SinkCircuit.WithLabelValues(name).Set(float64(to))
			}
		},
	})
	if f.metrics != nil {
		f.metrics.SinkCircuit.WithLabelValues(name).Set(float64(resilience.StateClosed))
	}
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Names returns the registered sink names in registration order.
func (f *Fanout) Names() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name()
	}
	return names
}

// Checker returns a health checker pinging every current sink.
func (f *Fanout) Checker() *health.Checker {
	checker := health.NewChecker()
	for _, s := range f.sinks {
		checker.Register(s.Name(), health.PingCheck(s.Ping))
	}
	return checker
}

// Preflight pings every sink. Sinks that are down are closed and removed so
// the run does not wait on them; the returned error lists them.
func (f *Fanout) Preflight(ctx context.Context) error {
	if len(f.sinks) == 0 {
		return nil
	}
	report := f.Checker().Run(ctx)
	down := report.Down()
	if len(down) == 0 {
		return nil
	}

	isDown := make(map[string]bool, len(down))
	for _, name := range down {
		isDown[name] = true
	}
	kept := f.sinks[:0]
	for _, s := range f.sinks {
		if !isDown[s.Name()] {
			kept = append(kept, s)
			continue
		}
		if err := s.Close(); err != nil {
			f.logger.Warn("closing unavailable sink", "sink", s.Name(), "error", err)
		}
		delete(f.breakers, s.Name())
		if f.metrics != nil {
			f.metrics.SinkPublishes.WithLabelValues(s.Name(), "unavailable").Inc()
		}
	}
	f.sinks = kept
	return apperrors.Newf(apperrors.ErrSinkUnavailable, "preflight failed for %s", strings.Join(down, ", "))
}

// Publish sends run to every sink and waits for all of them. One sink failing
// does not stop the others; the error joins every failure.
func (f *Fanout) Publish(ctx context.Context, run *Run) error {
	errs := make([]error, len(f.sinks))
	var wg sync.WaitGroup
	for i, s := range f.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.publishOne(ctx, s, run)
		}()
	}
	wg.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, f.sinks[i].Name())
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("%w: %w",
		apperrors.Newf(apperrors.ErrSinkUnavailable, "publishing to %s", strings.Join(failed, ", ")),
		errors.Join(errs...))
}

func (f *Fanout) publishOne(ctx context.Context, s Publisher, run *Run) error {
	name := s.Name()
	cb := f.breakers[name]
	log := logger.FromContext(ctx).With("component", "sink", "sink", name)

	start := time.Now()
	err := resilience.Retry(ctx, "sink "+name, f.opts.Retry, func() error {
		err := cb.Execute(func() error {
			return resilience.WithTimeout(ctx, f.opts.Timeout, "sink "+name, func(ctx context.Context) error {
				return s.Publish(ctx, run)
			})
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return resilience.Permanent(err)
		}
		return err
	})

	status := "ok"
	if err != nil {
		status = "error"
		log.Error("sink publish failed", "error", err, "duration", time.Since(start))
	} else {
		log.Info("run published", "pairs", len(run.Results), "duration", time.Since(start))
	}
	if f.metrics != nil {
		f.metrics.SinkPublishes.WithLabelValues(name, status).Inc()
	}
	return err
}

// Close closes every sink and joins the errors.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
