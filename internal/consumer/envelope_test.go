package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

func TestEnvelope_SettlesOnce(t *testing.T) {
	var acks, nacks int
	env := NewEnvelope("msg-1", &domain.Event{EventID: "e1"},
		func(context.Context) error { acks++; return nil },
		func(context.Context) error { nacks++; return nil })
	ctx := context.Background()

	require.NoError(t, env.Ack(ctx))
	assert.True(t, env.Settled())

	assert.ErrorIs(t, env.Ack(ctx), errEnvelopeSettled)
	assert.ErrorIs(t, env.Nack(ctx), errEnvelopeSettled)
	assert.Equal(t, 1, acks)
	assert.Equal(t, 0, nacks)
}

func TestEnvelope_FailedSettleCanBeRetried(t *testing.T) {
	attempts := 0
	env := NewEnvelope("msg-1", &domain.Event{EventID: "e1"},
		func(context.Context) error {
			attempts++
			if attempts == 1 {
				return errors.New("throttled")
			}
			return nil
		}, nil)
	ctx := context.Background()

	assert.Error(t, env.Ack(ctx))
	assert.False(t, env.Settled())

	require.NoError(t, env.Ack(ctx))
	assert.True(t, env.Settled())
	assert.Equal(t, 2, attempts)
}

func TestEnvelope_NilCallbacks(t *testing.T) {
	env := NewEnvelope("", &domain.Event{EventID: "e1"}, nil, nil)

	require.NoError(t, env.Nack(context.Background()))
	assert.True(t, env.Settled())
}
