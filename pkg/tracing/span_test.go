package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "run", "run-1")
	_, load := StartChildSpan(ctx, "load")
	load.SetAttr("concepts", 3)
	time.Sleep(time.Millisecond)
	load.End()
	_, classify := StartChildSpan(ctx, "classify")
	classify.End()
	d := root.End()

	assert.Same(t, root, SpanFromContext(ctx))
	require.Len(t, root.Children, 2)
	assert.Equal(t, "run-1", root.Children[0].RunID)
	assert.GreaterOrEqual(t, d, load.Duration)
	assert.Equal(t, d, root.End(), "End is idempotent")

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewTextHandler(&buf, nil)))
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=span"))
	assert.Contains(t, out, "span=load")
	assert.Contains(t, out, "concepts=3")
	assert.Contains(t, out, "depth=1")
}

func TestStartChildSpan_NoParent(t *testing.T) {
	ctx, span := StartChildSpan(context.Background(), "orphan")
	assert.Same(t, span, SpanFromContext(ctx))
	assert.Empty(t, span.RunID)
	assert.Nil(t, SpanFromContext(context.Background()))
}
