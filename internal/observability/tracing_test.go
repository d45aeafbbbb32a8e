package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracer_SpansWithoutProvider(t *testing.T) {
	tr := NewTracer()

	ctx, span := tr.StartTrackSpan(context.Background(), "e1", "page_view")
	assert.NotNil(t, ctx)
	tr.EndSpan(span, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, span = tr.StartQuerySpan(context.Background(), "page_views", start, start.Add(24*time.Hour))
	tr.EndSpan(span, errors.New("store unavailable"))

	assert.False(t, span.IsRecording())
}
