package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/kafka"
)

type recordingWriter struct {
	batches [][]kafka.Event
	failOn  int
	closed  bool
}

func (w *recordingWriter) PublishBatch(_ context.Context, events []kafka.Event) error {
	if w.failOn > 0 && len(w.batches)+1 == w.failOn {
		return errors.New("broker gone")
	}
	w.batches = append(w.batches, append([]kafka.Event(nil), events...))
	return nil
}

func (w *recordingWriter) Ping(context.Context) error { return nil }

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Publish(t *testing.T) {
	pairs, summary := &recordingWriter{}, &recordingWriter{}
	k := newKafkaSink(pairs, summary, 3)
	run := testRun("run-1", testStart.Add(time.Minute))

	require.NoError(t, k.Publish(context.Background(), run))

	require.Len(t, pairs.batches, 2)
	assert.Len(t, pairs.batches[0], 3)
	assert.Len(t, pairs.batches[1], 1)

	first := pairs.batches[0][0]
	assert.Equal(t, "1", first.Key)
	assert.Equal(t, "AGREE", first.Headers["outcome"])
	assert.Equal(t, "run-1", first.Headers["run_id"])
	rec, ok := first.Value.(PairRecord)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Seq)

	require.Len(t, summary.batches, 1)
	require.Len(t, summary.batches[0], 1)
	assert.Equal(t, "run-1", summary.batches[0][0].Key)
	sum, ok := summary.batches[0][0].Value.(SummaryRecord)
	require.True(t, ok)
	assert.Equal(t, 4, sum.Total)

	require.NoError(t, k.Close())
	assert.True(t, pairs.closed)
	assert.True(t, summary.closed)
}

func TestKafkaSink_PairFailureSkipsSummary(t *testing.T) {
	pairs, summary := &recordingWriter{failOn: 2}, &recordingWriter{}
	k := newKafkaSink(pairs, summary, 2)

	err := k.Publish(context.Background(), testRun("run-1", testStart))
	require.Error(t, err)
	assert.Empty(t, summary.batches)
	assert.Equal(t, "kafka", k.Name())
}
