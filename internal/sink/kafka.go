package sink

import (
	"context"
	"errors"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/kafka"
)

type eventWriter interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
	Ping(ctx context.Context) error
	Close() error
}

// KafkaSink emits one event per classified pair, keyed by child concept,
// followed by a run summary event keyed by run id.
type KafkaSink struct {
	pairs     eventWriter
	summary   eventWriter
	batchSize int
}

func NewKafkaSink(cfg config.KafkaConfig, batchSize int) *KafkaSink {
	return newKafkaSink(
		kafka.NewProducer(cfg, cfg.Topics.PairResults, batchSize),
		kafka.NewProducer(cfg, cfg.Topics.RunSummary, 1),
		batchSize,
	)
}

func newKafkaSink(pairs, summary eventWriter, batchSize int) *KafkaSink {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &KafkaSink{pairs: pairs, summary: summary, batchSize: batchSize}
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Ping(ctx context.Context) error { return k.pairs.Ping(ctx) }

func (k *KafkaSink) Publish(ctx context.Context, run *Run) error {
	batch := make([]kafka.Event, 0, min(k.batchSize, len(run.Results)))
	for i, r := range run.Results {
		rec := NewPairRecord(run.ID, i, r)
		batch = append(batch, kafka.Event{
			Key:     rec.Child,
			Value:   rec,
			Headers: map[string]string{"run_id": run.ID, "outcome": rec.Outcome},
		})
		if len(batch) == k.batchSize {
			if err := k.pairs.PublishBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := k.pairs.PublishBatch(ctx, batch); err != nil {
			return err
		}
	}
	return k.summary.PublishBatch(ctx, []kafka.Event{{
		Key:     run.ID,
		Value:   NewSummaryRecord(run),
		Headers: map[string]string{"run_id": run.ID},
	}})
}

func (k *KafkaSink) Close() error {
	return errors.Join(k.pairs.Close(), k.summary.Close())
}
