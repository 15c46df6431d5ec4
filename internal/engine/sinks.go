package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/sink"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/sqlite"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/tracing"
)

// OpenSinks connects every enabled sink and pre-flights it. The returned
// Fanout holds the sinks that came up; the error, if any, names the ones that
// did not and maps to the sink-failure exit code. The Fanout is never nil.
func (e *Engine) OpenSinks(ctx context.Context) (*sink.Fanout, error) {
	fanout := sink.NewFanout(sink.OptionsFrom(e.cfg.Sink), e.metrics)
	log := logger.FromContext(ctx).With("component", "engine")
	batch := e.cfg.Sink.BatchSize

	var errs []error
	if e.cfg.SQLite.Enabled {
		store, err := e.openSQLite(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			fanout.Add(store)
		}
	}
	if e.cfg.Postgres.Enabled {
		store, err := e.openPostgres(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			fanout.Add(store)
		}
	}
	if e.cfg.Kafka.Enabled {
		fanout.Add(sink.NewKafkaSink(e.cfg.Kafka, batch))
	}
	if e.cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, e.cfg.Redis)
		if err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		} else {
			fanout.Add(sink.NewRedisSink(client, e.cfg.Redis.KeyPrefix, e.cfg.Redis.TTL))
		}
	}
	if err := fanout.Preflight(ctx); err != nil {
		errs = append(errs, err)
	}

	if fanout.Len() > 0 {
		log.Info("result sinks ready", "sinks", fanout.Names())
	}
	if len(errs) > 0 {
		return fanout, fmt.Errorf("%w: %w",
			apperrors.New(apperrors.ErrSinkUnavailable, "opening result sinks"),
			errors.Join(errs...))
	}
	return fanout, nil
}

// Publish hands the comparison to every sink in the fanout.
func (e *Engine) Publish(ctx context.Context, fanout *sink.Fanout, cmp *Comparison) error {
	if fanout == nil || fanout.Len() == 0 {
		return nil
	}
	ctx, span := tracing.StartChildSpan(ctx, "publish")
	defer func() { e.metrics.ObservePhase("publish", span.End()) }()
	return fanout.Publish(ctx, cmp.SinkRun())
}

// OpenStore opens the SQL result store for reading: SQLite when enabled,
// otherwise PostgreSQL.
func (e *Engine) OpenStore(ctx context.Context) (*sink.SQLStore, error) {
	switch {
	case e.cfg.SQLite.Enabled:
		return e.openSQLite(ctx)
	case e.cfg.Postgres.Enabled:
		return e.openPostgres(ctx)
	default:
		return nil, apperrors.New(apperrors.ErrInvalidConfig, "no SQL result store enabled; set sqlite.enabled or postgres.enabled")
	}
}

// OpenCache connects the Redis summary cache.
func (e *Engine) OpenCache(ctx context.Context) (*sink.RedisSink, error) {
	if !e.cfg.Redis.Enabled {
		return nil, apperrors.New(apperrors.ErrInvalidConfig, "redis is not enabled")
	}
	client, err := redis.NewClient(ctx, e.cfg.Redis)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSinkUnavailable, "redis: %v", err)
	}
	return sink.NewRedisSink(client, e.cfg.Redis.KeyPrefix, e.cfg.Redis.TTL), nil
}

func (e *Engine) openSQLite(ctx context.Context) (*sink.SQLStore, error) {
	client, err := sqlite.Open(ctx, e.cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	store := sink.NewSQLiteStore(client, e.cfg.Sink.BatchSize)
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return store, nil
}

func (e *Engine) openPostgres(ctx context.Context) (*sink.SQLStore, error) {
	client, err := postgres.New(ctx, e.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	store := sink.NewPostgresStore(client, e.cfg.Sink.BatchSize)
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return store, nil
}
