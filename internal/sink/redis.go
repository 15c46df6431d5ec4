package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/redis"
)

// RedisSink caches the latest run summary and keeps running outcome totals
// across runs.
//
// Keys, relative to the configured prefix:
//
//	run:<id>            summary JSON, expires after ttl
//	run:<id>:outcomes   hash outcome -> count, expires after ttl
//	latest              id of the most recent run
//	totals              hash outcome -> count summed over all runs
//	runs                number of runs published
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisSink) Name() string { return "redis" }

func (r *RedisSink) Ping(ctx context.Context) error { return r.client.Ping(ctx) }

func (r *RedisSink) Close() error { return r.client.Close() }

func (r *RedisSink) key(parts ...string) string {
	k := r.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func (r *RedisSink) Publish(ctx context.Context, run *Run) error {
	rec := NewSummaryRecord(run)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	runKey := r.key("run", run.ID)
	outcomesKey := r.key("run", run.ID, "outcomes")

	return r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, runKey, data, r.ttl)
		pipe.Set(ctx, r.key("latest"), run.ID, 0)
		for _, o := range classifier.Outcomes {
			n := rec.Outcomes[o.String()]
			pipe.HSet(ctx, outcomesKey, o.String(), n)
			pipe.HIncrBy(ctx, r.key("totals"), o.String(), int64(n))
		}
		if r.ttl > 0 {
			pipe.Expire(ctx, outcomesKey, r.ttl)
		}
		pipe.Incr(ctx, r.key("runs"))
		return nil
	})
}

// LatestSummary loads the summary of the most recent run. It returns nil, nil
// when no run has been published or the summary has expired.
func (r *RedisSink) LatestSummary(ctx context.Context) (*SummaryRecord, error) {
	id, err := r.client.Get(ctx, r.key("latest"))
	if redis.IsNilError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest run id: %w", err)
	}
	data, err := r.client.Get(ctx, r.key("run", id))
	if redis.IsNilError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading summary of %s: %w", id, err)
	}
	var rec SummaryRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decoding summary of %s: %w", id, err)
	}
	return &rec, nil
}

// Totals returns the per-outcome counts summed over every published run.
func (r *RedisSink) Totals(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, r.key("totals"))
	if err != nil {
		return nil, fmt.Errorf("reading totals: %w", err)
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing total %s=%q: %w", k, v, err)
		}
		out[k] = n
	}
	return out, nil
}

// Forget deletes every key of one run and returns how many were removed.
func (r *RedisSink) Forget(ctx context.Context, runID string) (int64, error) {
	n, err := r.client.FlushByPattern(ctx, r.key("run", runID)+":*")
	if err != nil {
		return n, err
	}
	runKey := r.key("run", runID)
	if _, err := r.client.Get(ctx, runKey); redis.IsNilError(err) {
		return n, nil
	}
	if err := r.client.Del(ctx, runKey); err != nil {
		return n, fmt.Errorf("deleting %s: %w", runKey, err)
	}
	return n + 1, nil
}
